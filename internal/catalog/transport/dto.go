package transport

// Statuses

type CreateStatusRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Color    string `json:"color" validate:"required,min=1,max=50"`
	Category string `json:"category" validate:"required,oneof=active won lost"`
}

type UpdateStatusRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Color    *string `json:"color,omitempty" validate:"omitempty,min=1,max=50"`
	Category *string `json:"category,omitempty" validate:"omitempty,oneof=active won lost"`
}

// Programs

type CreateProgramRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

type UpdateProgramRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Active *bool   `json:"active,omitempty"`
}

type ListProgramsRequest struct {
	IncludeInactive bool `form:"includeInactive"`
}

// Sources

type CreateSourceRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

type UpdateSourceRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}
