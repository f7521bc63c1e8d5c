package workspace

import "github.com/cvsbridge/cvsbridge/internal/changeset"

type ChangesQuery struct {
	Root    string `query:"root"     validate:"max=1024"`
	WorkDir string `query:"work_dir" validate:"required,max=4096"`
}

// ChangesResponse represents the categorized changes of a working copy.
type ChangesResponse struct {
	changeset.Changeset

	Total   int    `json:"total"`
	Summary string `json:"summary"`
}

type SessionResponse struct {
	LastComment string `json:"last_comment"`
}
