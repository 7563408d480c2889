package exchangeflex

import (
	"context"

	"github.com/beevik/etree"
)

// ClientIface defines the interface for an exchange Client. It makes mocking the client easier in your tests
type ClientIface interface {
	GetAccountStatus(ctx context.Context, ibanAccount string) (*AccountStatus, error)
	SetPayment(ctx context.Context, xmlBody string) (string, error)
	ListOperations(ctx context.Context) ([]string, error)
	RawQuery(ctx context.Context, op Operation) ([]byte, error)
	Query(ctx context.Context, op Operation) (*etree.Document, error)
}
