package snapshots

import (
	"context"
	"sync"

	"github.com/fiffu/billwatch/lib/jsonfile"
	"github.com/fiffu/billwatch/lib/models"
)

// FileStore keeps bills in one JSON document (identity -> bill) and meetings
// in another (tenant -> identity -> meeting).
type FileStore struct {
	mu          sync.Mutex
	billPath    string
	meetingPath string
}

// NewFileStore opens the store and validates any existing documents, so a
// corrupt snapshot is reported before the first cycle runs.
func NewFileStore(billPath, meetingPath string) (*FileStore, error) {
	s := &FileStore{billPath: billPath, meetingPath: meetingPath}
	if _, err := s.LoadBills(context.Background()); err != nil {
		return nil, err
	}
	if _, err := s.loadAllMeetings(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) LoadBills(ctx context.Context) (models.BillSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := make(models.BillSnapshot)
	if _, err := jsonfile.Read(s.billPath, &snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *FileStore) SaveBills(ctx context.Context, snap models.BillSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap == nil {
		snap = models.BillSnapshot{}
	}
	return jsonfile.Write(s.billPath, snap)
}

func (s *FileStore) LoadMeetings(ctx context.Context, tenantID string) (models.MeetingSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadAllMeetings()
	if err != nil {
		return nil, err
	}
	if snap, ok := all[tenantID]; ok && snap != nil {
		return snap, nil
	}
	return models.MeetingSnapshot{}, nil
}

// SaveMeetings replaces one tenant's snapshot, leaving other tenants as they
// were on disk.
func (s *FileStore) SaveMeetings(ctx context.Context, tenantID string, snap models.MeetingSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadAllMeetings()
	if err != nil {
		return err
	}
	if snap == nil {
		snap = models.MeetingSnapshot{}
	}
	all[tenantID] = snap
	return jsonfile.Write(s.meetingPath, all)
}

func (s *FileStore) loadAllMeetings() (models.TenantMeetings, error) {
	all := make(models.TenantMeetings)
	if _, err := jsonfile.Read(s.meetingPath, &all); err != nil {
		return nil, err
	}
	return all, nil
}
