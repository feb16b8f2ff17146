package member

import "context"

type BranchRepository interface {
	ListAll(ctx context.Context) ([]Branch, error)
	Create(ctx context.Context, name string) (Branch, error)
}

type MemberRepository interface {
	// ListIdentityKeys returns the union of stored registration-number keys
	// and composite name+workplace keys.
	ListIdentityKeys(ctx context.Context) (map[string]struct{}, error)
	FindByIdentity(ctx context.Context, key string) (*Member, error)
	Insert(ctx context.Context, m Member) error
	Update(ctx context.Context, id string, m Member) error
}

type MemberQueryRepository interface {
	GetByID(ctx context.Context, id string) (*Member, error)
}

type ImportJobRepository interface {
	Enqueue(ctx context.Context, sourcePath, mappingJSON, settingsJSON string) (string, error)
}
