package users

import "time"

// Response is the wire representation of a user. The password hash
// never leaves the service.
type Response struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	EntityID  *int64    `json:"entityId"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateRequest carries the user creation body.
type CreateRequest struct {
	Username string `json:"username" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Role     Role   `json:"role" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	EntityID *int64 `json:"entityId"`
}

// UpdateRequest patches a user.
type UpdateRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Role     *Role   `json:"role"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	IsActive *bool   `json:"isActive"`
	EntityID *int64  `json:"entityId"`
}

// ToResponse maps a user to its wire shape.
func ToResponse(u *User) Response {
	return Response{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		EntityID:  u.EntityID,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToCreateInput converts the wire body into the domain input.
func (r CreateRequest) ToCreateInput() CreateInput {
	return CreateInput{
		Username: r.Username,
		Name:     r.Name,
		Email:    r.Email,
		Role:     r.Role,
		Password: r.Password,
		EntityID: r.EntityID,
	}
}

// ToUpdateInput converts the wire patch into the domain patch.
func (r UpdateRequest) ToUpdateInput() UpdateInput {
	return UpdateInput{
		Name:     r.Name,
		Email:    r.Email,
		Role:     r.Role,
		Password: r.Password,
		IsActive: r.IsActive,
		EntityID: r.EntityID,
	}
}
