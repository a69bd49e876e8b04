package genres

type ListGenresQuery struct {
	Limit  int     `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=200"`
	Offset int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
	Search *string `query:"search" json:"search,omitempty" validate:"omitempty,max=100"`
}

type CreateGenrePayload struct {
	Name string `json:"name" validate:"required,max=200" mod:"trim"`
}

type UpdateGenrePayload struct {
	Name *string `json:"name,omitempty" validate:"omitempty,max=200" mod:"trim"`
}

type MergeGenresPayload struct {
	SourceID int `json:"source_id" validate:"required,min=1"`
}
