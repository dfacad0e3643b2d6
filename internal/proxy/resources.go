package proxy

// Resources enumerates every proxied resource. Upstream paths follow the
// backend's /api/v1 prefix.
var Resources = []Resource{
	{
		Name:       "debts",
		Path:       "/api/v1/debts",
		FilterKeys: []string{"status_id", "category_id"},
		Protected:  true,
		Aggregates: true,
	},
	{
		Name:       "invoices",
		Path:       "/api/v1/invoices",
		FilterKeys: []string{"status_id"},
		Protected:  true,
		Children: []Child{
			{Segment: "transactions", FilterKeys: []string{"status_id", "category_id"}},
		},
	},
	{
		Name:       "transactions",
		Path:       "/api/v1/transactions",
		FilterKeys: []string{"status_id", "category_id"},
		Protected:  true,
		Aggregates: true,
	},
	{
		Name:      "categories",
		Path:      "/api/v1/categories",
		Protected: true,
	},
	{
		Name:      "paymentstatus",
		Path:      "/api/v1/paymentstatus",
		Protected: true,
	},
}

// UpstreamPath returns the upstream path for a resource name, or "" when the
// resource is unknown.
func UpstreamPath(name string) string {
	for _, res := range Resources {
		if res.Name == name {
			return res.Path
		}
	}
	return ""
}
