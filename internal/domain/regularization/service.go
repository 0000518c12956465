package regularization

import "context"

type RegularizationService interface {
	Request(ctx context.Context, req CreateRequest) (RequestResponse, error)
	Approve(ctx context.Context, req ResolveRequest) (RequestResponse, error)
	Reject(ctx context.Context, req ResolveRequest) (RequestResponse, error)
	// DirectRegularize applies the approval mutation to the record without a
	// request object. Converges on the same record state as Approve.
	DirectRegularize(ctx context.Context, req DirectRegularizeRequest) error
}
