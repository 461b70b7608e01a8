package domain

import "time"

// Category is the top level of the three-tier classification hierarchy.
type Category struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
}

// SubCategory belongs to exactly one Category.
type SubCategory struct {
	ID         string
	CategoryID string
	Name       string
	IsActive   bool
	CreatedAt  time.Time
}

// IssueOption belongs to exactly one SubCategory.
type IssueOption struct {
	ID            string
	SubCategoryID string
	Name          string
	IsActive      bool
	CreatedAt     time.Time
}

// Classification bundles a validated category path for a complaint.
type Classification struct {
	CategoryID    string
	SubCategoryID string
	IssueOptionID string
}
