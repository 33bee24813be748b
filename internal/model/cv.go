package model

// Typed CV document matching templates/cv.schema.json. Every field is
// optional; zero values render as empty slots in the generated document.

type Personal struct {
	FullName string `json:"full_name,omitempty" yaml:"full_name"`
	Title    string `json:"title,omitempty" yaml:"title"`
	Email    string `json:"email,omitempty" yaml:"email"`
	Phone    string `json:"phone,omitempty" yaml:"phone"`
	Location string `json:"location,omitempty" yaml:"location"`
	Website  string `json:"website,omitempty" yaml:"website"`
}

type Role struct {
	Role         string   `json:"role,omitempty" yaml:"role"`
	Company      string   `json:"company,omitempty" yaml:"company"`
	StartDate    string   `json:"start_date,omitempty" yaml:"start_date"`
	EndDate      string   `json:"end_date,omitempty" yaml:"end_date"`
	Location     string   `json:"location,omitempty" yaml:"location"`
	Description  string   `json:"description,omitempty" yaml:"description"`
	Achievements []string `json:"achievements,omitempty" yaml:"achievements"`
	TechStack    []string `json:"tech_stack,omitempty" yaml:"tech_stack"`
}

type Project struct {
	Name        string   `json:"name,omitempty" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description"`
	URL         string   `json:"url,omitempty" yaml:"url"`
	Highlights  []string `json:"highlights,omitempty" yaml:"highlights"`
	TechStack   []string `json:"tech_stack,omitempty" yaml:"tech_stack"`
}

type Education struct {
	Degree      string `json:"degree,omitempty" yaml:"degree"`
	Institution string `json:"institution,omitempty" yaml:"institution"`
	StartDate   string `json:"start_date,omitempty" yaml:"start_date"`
	EndDate     string `json:"end_date,omitempty" yaml:"end_date"`
	Details     string `json:"details,omitempty" yaml:"details"`
}

type Certification struct {
	Name   string `json:"name,omitempty" yaml:"name"`
	Issuer string `json:"issuer,omitempty" yaml:"issuer"`
	Date   string `json:"date,omitempty" yaml:"date"`
	URL    string `json:"url,omitempty" yaml:"url"`
}

// CVDocument is the caller-owned curriculum data the template engine renders.
type CVDocument struct {
	Personal       Personal            `json:"personal,omitempty" yaml:"personal"`
	Summary        string              `json:"summary,omitempty" yaml:"summary"`
	Experience     []Role              `json:"experience,omitempty" yaml:"experience"`
	Projects       []Project           `json:"projects,omitempty" yaml:"projects"`
	Skills         map[string][]string `json:"skills,omitempty" yaml:"skills"`
	Education      []Education         `json:"education,omitempty" yaml:"education"`
	Certifications []Certification     `json:"certifications,omitempty" yaml:"certifications"`
}
