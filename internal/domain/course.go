package domain

// Course es un curso del catálogo.
type Course struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Price    string `json:"price"`
	Author   string `json:"author"`
	ImageURL string `json:"image_url,omitempty"`
	Link     string `json:"link,omitempty"`
}

// CompletedCourse registra que una cuenta completó un curso.
type CompletedCourse struct {
	ID        string `json:"id"`
	CourseID  string `json:"course"`
	AccountID string `json:"user"`
}
