package engine

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/camkit/postall/internal/settings"
)

// ValidateSettings checks that a run may start: the output folder must be
// set, and the post-processor must be an existing .cps file. The returned
// error names exactly which of the two is invalid.
func (e *Engine) ValidateSettings(st *settings.Settings) error {
	outputValid := len(st.Output) != 0

	postValid := strings.HasSuffix(st.Post, settings.PostExt)
	if postValid {
		exists, err := e.fs.Exists(st.Post)
		postValid = err == nil && exists
	}

	if outputValid && postValid {
		return nil
	}

	var missing []string
	if !outputValid {
		missing = append(missing, "the output folder")
	}
	if !postValid {
		missing = append(missing, "a valid post processor")
	}
	return errors.Wrapf(ErrValidation, "please select %s", strings.Join(missing, " and "))
}
