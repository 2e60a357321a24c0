// Package content serves the agency's static site catalog: portfolio
// projects, process steps, sectors, insights articles and headline metrics.
package content

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

var (
	// ErrUnknownSection is returned for section names the catalog does not have.
	ErrUnknownSection = errors.New("content: unknown section")
	// ErrPostNotFound is returned for unknown article IDs.
	ErrPostNotFound = errors.New("content: post not found")
)

// Project is a case study shown on the portfolio page.
type Project struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Category    string   `yaml:"category" json:"category"`
	Metric      string   `yaml:"metric" json:"metric"`
	Description string   `yaml:"description" json:"description"`
	Image       string   `yaml:"image" json:"image"`
	TechStack   []string `yaml:"tech_stack" json:"tech_stack"`
}

// Step is one phase of the delivery process.
type Step struct {
	ID          string `yaml:"id" json:"id"`
	Number      string `yaml:"number" json:"number"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

// Sector is an industry the agency serves.
type Sector struct {
	ID       string `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title"`
	Tag      string `yaml:"tag" json:"tag"`
	Benefit  string `yaml:"benefit" json:"benefit"`
	GridSpan string `yaml:"grid_span" json:"grid_span"`
	Gradient string `yaml:"gradient" json:"gradient"`
}

// Post is an insights article. Content is trusted HTML.
type Post struct {
	ID       string `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title"`
	Date     string `yaml:"date" json:"date"`
	Category string `yaml:"category" json:"category"`
	ReadTime string `yaml:"read_time" json:"read_time"`
	Excerpt  string `yaml:"excerpt" json:"excerpt"`
	Image    string `yaml:"image" json:"image"`
	Content  string `yaml:"content" json:"content,omitempty"`
}

// Catalog holds every static record in display order.
type Catalog struct {
	Pages              []string  `yaml:"pages"`
	Projects           []Project `yaml:"projects"`
	Steps              []Step    `yaml:"steps"`
	Sectors            []Sector  `yaml:"sectors"`
	Posts              []Post    `yaml:"blog_posts"`
	PerformanceMetrics []string  `yaml:"performance_metrics"`
}

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("content: parse catalog: %w", err)
	}
	seen := make(map[string]struct{}, len(c.Posts))
	for _, p := range c.Posts {
		if p.ID == "" {
			return nil, fmt.Errorf("content: post %q has no id", p.Title)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("content: duplicate post id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return &c, nil
}

// Load returns the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(catalogYAML)
}

// Section returns the records of one named section in input order. Insights
// are returned without their article bodies.
func (c *Catalog) Section(name string) (any, error) {
	switch name {
	case "pages":
		return c.Pages, nil
	case "projects", "case-studies":
		return c.Projects, nil
	case "steps", "process":
		return c.Steps, nil
	case "sectors", "industries":
		return c.Sectors, nil
	case "insights", "blog-posts":
		return c.Summaries(), nil
	case "performance-metrics":
		return c.PerformanceMetrics, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, name)
	}
}

// Summaries lists posts without content.
func (c *Catalog) Summaries() []Post {
	out := make([]Post, len(c.Posts))
	for i, p := range c.Posts {
		p.Content = ""
		out[i] = p
	}
	return out
}

// Post returns one article with its body.
func (c *Catalog) Post(id string) (Post, error) {
	for _, p := range c.Posts {
		if p.ID == id {
			return p, nil
		}
	}
	return Post{}, ErrPostNotFound
}
