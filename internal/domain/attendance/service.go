package attendance

import "context"

type AttendanceService interface {
	PunchIn(ctx context.Context, req PunchRequest) (RecordResponse, error)
	PunchOut(ctx context.Context, req PunchRequest) (RecordResponse, error)
	GetRecord(ctx context.Context, id, orgID string) (RecordResponse, error)
	ListRecords(ctx context.Context, orgID string, filter RecordFilter) (ListRecordsResponse, error)
}
