package profile

import (
	"strings"

	"github.com/dayflow-hr/dayflow-backend-go/internal/pkg/validator"
)

type ProfileResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	EmployeeCode *string `json:"employee_code"`
	Department   *string `json:"department"`
	Position     *string `json:"position"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	JoinDate     *string `json:"join_date"`
	Outcome      string  `json:"outcome,omitempty"`
}

func NewProfileResponse(p Profile) ProfileResponse {
	resp := ProfileResponse{
		ID:           p.ID,
		Name:         p.Name,
		Email:        p.Email,
		Role:         string(p.Role),
		EmployeeCode: p.EmployeeCode,
		Department:   p.Department,
		Position:     p.Position,
		Phone:        p.Phone,
		Address:      p.Address,
	}
	if p.JoinDate != nil {
		d := p.JoinDate.Format("2006-01-02")
		resp.JoinDate = &d
	}
	return resp
}

// UpdateProfileRequest carries the fields an employee may edit on their own
// profile. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=255"`
	Department *string `json:"department" validate:"omitempty,max=100"`
	Position   *string `json:"position" validate:"omitempty,max=100"`
	Phone      *string `json:"phone" validate:"omitempty,max=32"`
	Address    *string `json:"address" validate:"omitempty,max=500"`
}

func (r *UpdateProfileRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.Name != nil && validator.IsEmpty(*r.Name) {
		return validator.ValidationErrors{{
			Field:   "name",
			Message: "name must not be blank",
		}}
	}
	return nil
}

// Apply copies the set fields onto p.
func (r UpdateProfileRequest) Apply(p *Profile) {
	if r.Name != nil {
		p.Name = strings.TrimSpace(*r.Name)
	}
	if r.Department != nil {
		p.Department = r.Department
	}
	if r.Position != nil {
		p.Position = r.Position
	}
	if r.Phone != nil {
		p.Phone = r.Phone
	}
	if r.Address != nil {
		p.Address = r.Address
	}
}
