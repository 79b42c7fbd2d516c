package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hireloop/interview-core-go/internal/analyzer"
	"github.com/hireloop/interview-core-go/internal/model"
	"github.com/hireloop/interview-core-go/internal/transport"
)

// fakeSessionRepo is an in-memory SessionRepository with real conditional
// write semantics, so concurrency properties can be tested end to end.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
}

func newFakeSessionRepo(sessions ...*model.Session) *fakeSessionRepo {
	r := &fakeSessionRepo{sessions: make(map[string]*model.Session)}
	for _, s := range sessions {
		copied := *s
		r.sessions[s.ID] = &copied
	}
	return r
}

func (r *fakeSessionRepo) FindByID(_ context.Context, id string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSessionRepo) LockRegion(_ context.Context, id string, region model.Region, roomName string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.Region != nil {
		return false, nil
	}
	s.Region = &region
	s.RoomName = &roomName
	return true, nil
}

func (r *fakeSessionRepo) Transition(_ context.Context, id string, from []model.SessionStatus, to model.SessionStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return false, nil
	}
	for _, f := range from {
		if s.Status == f {
			s.Status = to
			return true, nil
		}
	}
	return false, nil
}

type fakeParticipantRepo struct {
	mu           sync.Mutex
	participants map[string]*model.Participant // keyed by sessionID+identity
	nextID       int
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{participants: make(map[string]*model.Participant)}
}

func participantKey(sessionID, identity string) string {
	return sessionID + "/" + identity
}

func (r *fakeParticipantRepo) FindBySessionAndIdentity(_ context.Context, sessionID, identity string) (*model.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[participantKey(sessionID, identity)]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *fakeParticipantRepo) ListBySession(_ context.Context, sessionID string) ([]model.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Participant
	for _, p := range r.participants {
		if p.SessionID == sessionID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeParticipantRepo) CountByRole(_ context.Context, sessionID string, role model.Role) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, p := range r.participants {
		if p.SessionID == sessionID && p.Role == role {
			count++
		}
	}
	return count, nil
}

func (r *fakeParticipantRepo) Create(_ context.Context, params model.CreateParticipantParams) (*model.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := participantKey(params.SessionID, params.Identity)
	if existing, ok := r.participants[key]; ok {
		copied := *existing
		return &copied, nil
	}
	r.nextID++
	now := time.Now()
	p := &model.Participant{
		ID:               fmt.Sprintf("p-%d", r.nextID),
		SessionID:        params.SessionID,
		Identity:         params.Identity,
		Role:             params.Role,
		ParticipantIndex: params.ParticipantIndex,
		JoinedAt:         &now,
		CreatedAt:        now,
	}
	r.participants[key] = p
	copied := *p
	return &copied, nil
}

func (r *fakeParticipantRepo) MarkJoined(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, p := range r.participants {
		if p.ID == id {
			p.JoinedAt = &now
		}
	}
	return nil
}

type fakeMembershipRepo struct {
	members map[string]bool // orgID/actorID
}

func newFakeMembershipRepo(pairs ...string) *fakeMembershipRepo {
	r := &fakeMembershipRepo{members: make(map[string]bool)}
	for _, pair := range pairs {
		r.members[pair] = true
	}
	return r
}

func (r *fakeMembershipRepo) IsMember(_ context.Context, organizationID, actorID string) (bool, error) {
	return r.members[organizationID+"/"+actorID], nil
}

// fakeProvider simulates the transport backend.
type fakeProvider struct {
	mu           sync.Mutex
	healthy      map[model.Region]bool
	participants map[string][]transport.Participant // keyed by roomName
	removed      []string
	deletedRooms []string
	sentData     [][]string // identities per SendData call
	deleteErr    map[model.Region]error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		healthy: map[model.Region]bool{
			model.RegionUSEast:  true,
			model.RegionAPSouth: true,
		},
		participants: make(map[string][]transport.Participant),
		deleteErr:    make(map[model.Region]error),
	}
}

func (p *fakeProvider) HealthCheck(_ context.Context, region model.Region) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.healthy[region] {
		return fmt.Errorf("region %s down", region)
	}
	return nil
}

func (p *fakeProvider) ListParticipants(_ context.Context, _ model.Region, roomName string) ([]transport.Participant, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.participants[roomName], nil
}

func (p *fakeProvider) RemoveParticipant(_ context.Context, _ model.Region, roomName, identity string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removed = append(p.removed, identity)
	var kept []transport.Participant
	for _, member := range p.participants[roomName] {
		if member.Identity != identity {
			kept = append(kept, member)
		}
	}
	p.participants[roomName] = kept
	return nil
}

func (p *fakeProvider) DeleteRoom(_ context.Context, region model.Region, roomName string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.deleteErr[region]; err != nil {
		return err
	}
	p.deletedRooms = append(p.deletedRooms, roomName)
	return nil
}

func (p *fakeProvider) SendData(_ context.Context, _ model.Region, _ string, identities []string, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sentData = append(p.sentData, identities)
	return nil
}

func (p *fakeProvider) ServerURL(region model.Region) string {
	return "wss://" + string(region) + ".transport.test"
}

type fakeSuggestionRepo struct {
	mu      sync.Mutex
	records []model.SuggestionRecord
	nextErr error
}

func newFakeSuggestionRepo() *fakeSuggestionRepo {
	return &fakeSuggestionRepo{}
}

func (r *fakeSuggestionRepo) Create(_ context.Context, params model.CreateSuggestionParams) (*model.SuggestionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nextErr != nil {
		err := r.nextErr
		r.nextErr = nil
		return nil, err
	}
	record := model.SuggestionRecord{
		ID:          params.ID,
		SessionID:   params.SessionID,
		Type:        params.Type,
		Priority:    params.Priority,
		Content:     params.Content,
		ContentHash: params.ContentHash,
		CreatedAt:   time.Now(),
	}
	r.records = append(r.records, record)
	return &record, nil
}

func (r *fakeSuggestionRepo) ExistsRecentHash(_ context.Context, sessionID, contentHash string, since time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.SessionID == sessionID &&
			record.ContentHash == contentHash &&
			record.CreatedAt.After(since) &&
			record.AcknowledgedAt == nil {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSuggestionRepo) ListRecentUnacknowledged(_ context.Context, sessionID string, since time.Time, limit int) ([]model.SuggestionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.SuggestionRecord
	for _, record := range r.records {
		if record.SessionID == sessionID &&
			record.CreatedAt.After(since) &&
			record.AcknowledgedAt == nil &&
			record.DismissedAt == nil {
			out = append(out, record)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeSuggestionRepo) Acknowledge(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for i := range r.records {
		if r.records[i].ID == id && r.records[i].AcknowledgedAt == nil {
			r.records[i].AcknowledgedAt = &now
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSuggestionRepo) Dismiss(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for i := range r.records {
		if r.records[i].ID == id && r.records[i].DismissedAt == nil {
			r.records[i].DismissedAt = &now
			return true, nil
		}
	}
	return false, nil
}

type fakeSkillRepo struct {
	mu    sync.Mutex
	evals map[string]model.SkillEvaluation // sessionID/skill
}

func newFakeSkillRepo() *fakeSkillRepo {
	return &fakeSkillRepo{evals: make(map[string]model.SkillEvaluation)}
}

func (r *fakeSkillRepo) Upsert(_ context.Context, eval model.SkillEvaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := eval.SessionID + "/" + eval.SkillName
	if existing, ok := r.evals[key]; ok && existing.Quality == model.SkillQualityDeep {
		eval.Quality = model.SkillQualityDeep
	}
	r.evals[key] = eval
	return nil
}

func (r *fakeSkillRepo) ListBySession(_ context.Context, sessionID string) ([]model.SkillEvaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.SkillEvaluation
	for _, eval := range r.evals {
		if eval.SessionID == sessionID {
			out = append(out, eval)
		}
	}
	return out, nil
}

type fakeAnalyzer struct {
	analysis *analyzer.Analysis
	err      error
	calls    int
	lastReq  analyzer.Request
}

func (a *fakeAnalyzer) Analyze(_ context.Context, req analyzer.Request) (*analyzer.Analysis, error) {
	a.calls++
	a.lastReq = req
	if a.err != nil {
		return nil, a.err
	}
	copied := *a.analysis
	return &copied, nil
}

type fakeLifecycle struct {
	calls int
	err   error
}

func (l *fakeLifecycle) OnJoin(_ context.Context, _ string, _ model.Role) error {
	l.calls++
	return l.err
}
