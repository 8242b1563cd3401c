package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/alshahriar/gymfit/model"
)

// MemoryStore is the in-memory Store used in tests. It enforces the same
// uniqueness rules as the MySQL schema and hands out monotonic ids, but
// Transaction offers no rollback; each repository call is atomic on its own.
type MemoryStore struct {
	mu         sync.Mutex
	users      map[uint]*model.User
	members    map[uint]*model.Member
	regs       map[uint]*model.Registration
	tokens     map[uint]*model.PasswordResetToken
	nextUser   uint
	nextMember uint
	nextReg    uint
	nextToken  uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[uint]*model.User),
		members: make(map[uint]*model.Member),
		regs:    make(map[uint]*model.Registration),
		tokens:  make(map[uint]*model.PasswordResetToken),
	}
}

func (s *MemoryStore) Users() UserRepository                 { return &memUserRepository{s} }
func (s *MemoryStore) Members() MemberRepository             { return &memMemberRepository{s} }
func (s *MemoryStore) Registrations() RegistrationRepository { return &memRegistrationRepository{s} }
func (s *MemoryStore) ResetTokens() ResetTokenRepository     { return &memResetTokenRepository{s} }

func (s *MemoryStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return fn(s)
}

type memUserRepository struct {
	store *MemoryStore
}

func (r *memUserRepository) Create(ctx context.Context, user *model.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return ErrDuplicate
		}
	}
	s.nextUser++
	user.ID = s.nextUser
	user.CreatedAt = time.Now()
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (r *memUserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (r *memUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memUserRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string, changeRequired bool) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.PasswordChangeRequired = changeRequired
	u.UpdatedAt = time.Now()
	return nil
}

func (r *memUserRepository) SetLastLogin(ctx context.Context, id uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	now := time.Now()
	u.LastLoginAt = &now
	return nil
}

type memRegistrationRepository struct {
	store *MemoryStore
}

func (r *memRegistrationRepository) Create(ctx context.Context, reg *model.Registration) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextReg++
	reg.ID = s.nextReg
	cp := *reg
	s.regs[reg.ID] = &cp
	return nil
}

func (r *memRegistrationRepository) PendingByID(ctx context.Context, id uint) (*model.Registration, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if reg, ok := s.regs[id]; ok && reg.Status == model.RegistrationPending {
		cp := *reg
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (r *memRegistrationRepository) PendingByEmail(ctx context.Context, email string) (*model.Registration, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, reg := range s.regs {
		if reg.Email == email && reg.Status == model.RegistrationPending {
			cp := *reg
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memRegistrationRepository) ListPending(ctx context.Context) ([]model.Registration, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var regs []model.Registration
	for _, reg := range s.regs {
		if reg.Status == model.RegistrationPending {
			regs = append(regs, *reg)
		}
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].ID < regs[j].ID })
	return regs, nil
}

func (r *memRegistrationRepository) CountPending(ctx context.Context) (int64, error) {
	regs, _ := r.ListPending(ctx)
	return int64(len(regs)), nil
}

func (r *memRegistrationRepository) SetStatus(ctx context.Context, id uint, status string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.regs[id]
	if !ok {
		return ErrNotFound
	}
	reg.Status = status
	return nil
}

type memMemberRepository struct {
	store *MemoryStore
}

func (r *memMemberRepository) Create(ctx context.Context, member *model.Member) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.members {
		if m.Email == member.Email {
			return ErrDuplicate
		}
	}
	s.nextMember++
	member.ID = s.nextMember
	member.CreatedAt = time.Now()
	cp := *member
	s.members[member.ID] = &cp
	return nil
}

func (r *memMemberRepository) GetByID(ctx context.Context, id uint) (*model.Member, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.members[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (r *memMemberRepository) GetByEmail(ctx context.Context, email string) (*model.Member, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.members {
		if m.Email == email {
			cp := *m
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memMemberRepository) List(ctx context.Context) ([]model.Member, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var members []model.Member
	for _, m := range s.members {
		members = append(members, *m)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members, nil
}

func (r *memMemberRepository) Update(ctx context.Context, member *model.Member) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[member.ID]; !ok {
		return ErrNotFound
	}
	for _, m := range s.members {
		if m.ID != member.ID && m.Email == member.Email {
			return ErrDuplicate
		}
	}
	member.UpdatedAt = time.Now()
	cp := *member
	s.members[member.ID] = &cp
	return nil
}

func (r *memMemberRepository) Delete(ctx context.Context, id uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[id]; !ok {
		return ErrNotFound
	}
	delete(s.members, id)
	return nil
}

type memResetTokenRepository struct {
	store *MemoryStore
}

func (r *memResetTokenRepository) Create(ctx context.Context, token *model.PasswordResetToken) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tokens {
		if t.Token == token.Token {
			return ErrDuplicate
		}
	}
	s.nextToken++
	token.ID = s.nextToken
	token.CreatedAt = time.Now()
	cp := *token
	s.tokens[token.ID] = &cp
	return nil
}

func (r *memResetTokenRepository) GetUnused(ctx context.Context, token string) (*model.PasswordResetToken, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tokens {
		if t.Token == token && !t.Used {
			cp := *t
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memResetTokenRepository) MarkUsed(ctx context.Context, id uint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[id]
	if !ok || t.Used {
		return ErrNotFound
	}
	t.Used = true
	return nil
}
