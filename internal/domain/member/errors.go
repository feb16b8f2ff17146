package member

import "errors"

var (
	ErrMemberNotFound      = errors.New("member not found")
	ErrImportJobNotFound   = errors.New("import job not found")
	ErrDuplicateMember     = errors.New("duplicate member")
	ErrAdminBranchRequired = errors.New("force_admin_branch requires admin_branch_id")
)
