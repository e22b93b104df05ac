package repository

import (
	"sync"

	"github.com/segyhp/circulation-desk/internal/domain"
)

type memberRepository struct {
	mu      sync.RWMutex
	members []*domain.Member
	limits  domain.Limits
}

// MemberOption configures a member repository
type MemberOption func(*memberRepository)

// WithMemberLimits holds every member added afterwards to limits
func WithMemberLimits(limits domain.Limits) MemberOption {
	return func(r *memberRepository) {
		r.limits = limits
	}
}

func NewMemberRepository(opts ...MemberOption) MemberRepository {
	r := &memberRepository{
		members: make([]*domain.Member, 0),
		limits:  domain.DefaultLimits(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *memberRepository) AddMember(firstName, lastName, contactPhone, emailAddress string) (*domain.Member, error) {
	request := addMemberRequest{
		FirstName:    firstName,
		LastName:     lastName,
		ContactPhone: contactPhone,
		EmailAddress: emailAddress,
	}
	if err := validateRequest(request); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	member, err := domain.NewMember(r.nextID(), firstName, lastName, contactPhone, emailAddress)
	if err != nil {
		return nil, err
	}
	if err := member.SetLimits(r.limits); err != nil {
		return nil, err
	}

	r.members = append(r.members, member)
	return member, nil
}

func (r *memberRepository) GetMemberByID(id int) *domain.Member {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, member := range r.members {
		if member.ID() == id {
			return member
		}
	}
	return nil
}

func (r *memberRepository) ListMembers() []*domain.Member {
	return r.filter(func(*domain.Member) bool { return true })
}

func (r *memberRepository) FindMembersByLastName(lastName string) []*domain.Member {
	return r.filter(func(m *domain.Member) bool { return m.LastName() == lastName })
}

func (r *memberRepository) FindMembersByEmailAddress(emailAddress string) []*domain.Member {
	return r.filter(func(m *domain.Member) bool { return m.EmailAddress() == emailAddress })
}

func (r *memberRepository) FindMembersByNames(firstName, lastName string) []*domain.Member {
	return r.filter(func(m *domain.Member) bool {
		return m.FirstName() == firstName && m.LastName() == lastName
	})
}

func (r *memberRepository) filter(match func(*domain.Member) bool) []*domain.Member {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]*domain.Member, 0)
	for _, member := range r.members {
		if match(member) {
			members = append(members, member)
		}
	}
	return members
}

func (r *memberRepository) nextID() int {
	maxID := 0
	for _, member := range r.members {
		if member.ID() > maxID {
			maxID = member.ID()
		}
	}
	return maxID + 1
}
