package dto

// ContainerResponse is one container as returned by the container endpoints.
type ContainerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Image     string `json:"image,omitempty"`
	CreatedAt string `json:"createdAt"`
	Status    string `json:"status"`
	State     string `json:"state"`
	UserID    string `json:"userId,omitempty"`
}

// ContainerCreateRequest is the body of POST /container/create.
type ContainerCreateRequest struct {
	Name    string   `json:"name"`
	Image   string   `json:"image"`
	EnvVars []string `json:"envVars"`
}
