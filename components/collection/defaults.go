package collection

// DefaultResourceDescriptors returns descriptors for the collections every
// workspace ships with. Applications extend or replace these via hooks or
// manifests.
func DefaultResourceDescriptors() []ResourceDescriptor {
	return []ResourceDescriptor{
		{
			Code:           "templates",
			Name:           "Template",
			Description:    "Marketplace templates browsable and purchasable by workspace members.",
			SearchFields:   []string{"title", "description", "tags", "author"},
			RequiredFields: []string{"title", "description", "category"},
			RichTextFields: []string{"description"},
			FileFields:     []string{"preview_image", "bundle"},
			Actions:        []string{"download", "favorite", "unfavorite", "rate", "publish", "unpublish"},
			Schema: map[string]any{
				"type":     "object",
				"required": []string{"title", "category"},
				"properties": map[string]any{
					"title":    map[string]any{"type": "string", "minLength": 1},
					"category": map[string]any{"type": "string", "minLength": 1},
					"price":    map[string]any{"type": "number", "minimum": 0},
				},
			},
		},
		{
			Code:           "products",
			Name:           "Product",
			Description:    "Storefront products with price, inventory, and media.",
			SearchFields:   []string{"title", "description", "tags"},
			RequiredFields: []string{"title", "price", "category"},
			RichTextFields: []string{"description"},
			FileFields:     []string{"images"},
			Actions:        []string{"favorite", "unfavorite", "publish", "unpublish"},
		},
		{
			Code:           "contacts",
			Name:           "Contact",
			Description:    "CRM contacts with company and pipeline status.",
			SearchFields:   []string{"name", "email", "company"},
			RequiredFields: []string{"name", "email"},
			Actions:        []string{"favorite", "unfavorite"},
		},
		{
			Code:           "appointments",
			Name:           "Appointment",
			Description:    "Bookings with time slots and attendee details.",
			SearchFields:   []string{"title", "client", "notes"},
			RequiredFields: []string{"title", "starts_at"},
		},
		{
			Code:           "courses",
			Name:           "Course",
			Description:    "Published courses with lessons and enrollment counters.",
			SearchFields:   []string{"title", "description", "tags", "author"},
			RequiredFields: []string{"title", "description", "category"},
			RichTextFields: []string{"description"},
			FileFields:     []string{"cover_image"},
			Actions:        []string{"favorite", "unfavorite", "rate", "publish", "unpublish"},
		},
		{
			Code:           "links",
			Name:           "Link",
			Description:    "Link-in-bio entries with explicit user-defined ordering.",
			SearchFields:   []string{"title", "url"},
			RequiredFields: []string{"title", "url"},
			Actions:        []string{"publish", "unpublish"},
		},
	}
}
