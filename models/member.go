package models

import (
	"errors"
	"strings"
	"time"
)

const DefaultMemberImage = "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150&h=150&fit=crop&crop=face"

type Member struct {
	Meta `bson:",inline"`

	Name     string    `bson:"name" json:"name"`
	Contact  string    `bson:"contact" json:"contact"` // email
	Phone    string    `bson:"phone" json:"phone"`
	Role     string    `bson:"role" json:"role"` // student, coach, admin
	JoinDate time.Time `bson:"joinDate" json:"joinDate"`
	Image    string    `bson:"image" json:"image"`
}

func (m *Member) Normalize() {
	m.Name = strings.TrimSpace(m.Name)
	m.Contact = strings.TrimSpace(m.Contact)
	m.Phone = strings.TrimSpace(m.Phone)
	m.Role = strings.TrimSpace(m.Role)
	m.Image = strings.TrimSpace(m.Image)
	if m.Image == "" {
		m.Image = DefaultMemberImage
	}
}

func (m *Member) Validate() error {
	switch {
	case m.Name == "":
		return errors.New("name is required")
	case m.Contact == "":
		return errors.New("contact is required")
	case m.Phone == "":
		return errors.New("phone is required")
	case m.Role == "":
		return errors.New("role is required")
	case m.JoinDate.IsZero():
		return errors.New("joinDate is required")
	}
	return nil
}

type MemberPatch struct {
	Name     *string `json:"name"`
	Contact  *string `json:"contact"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role"`
	JoinDate *string `json:"joinDate"`
	Image    *string `json:"image"`
}

// Apply copies the provided fields onto m.
func (p MemberPatch) Apply(m *Member) error {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Contact != nil {
		m.Contact = *p.Contact
	}
	if p.Phone != nil {
		m.Phone = *p.Phone
	}
	if p.Role != nil {
		m.Role = *p.Role
	}
	if p.Image != nil {
		m.Image = *p.Image
	}
	return parseOptionalDate("joinDate", p.JoinDate, &m.JoinDate)
}
