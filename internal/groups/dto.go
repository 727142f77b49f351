package groups

type CreateGroupRequest struct {
	Name    string   `json:"name" validate:"required,max=200"`
	Members []string `json:"members,omitempty" validate:"omitempty,dive,required,max=200"`
}

type RenameGroupRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type AddMemberRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}
