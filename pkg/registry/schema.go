// pkg/registry/schema.go
package registry

// EndpointRegistry describes the HTTP surface of the service. It backs the
// index route and is maintained with cmd/tools/registry-updater.
type EndpointRegistry struct {
	Service     string     `json:"service"`
	Message     string     `json:"message"`
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Endpoints   []Endpoint `json:"endpoints"`
}

type Endpoint struct {
	ID          string   `json:"id"`
	Method      string   `json:"method"`
	Path        string   `json:"path"`
	Handler     string   `json:"handler"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Auth        bool     `json:"auth"`
	Status      string   `json:"status"`
	ErrorCodes  []string `json:"errorCodes"`
	Tags        []string `json:"tags"`
}

var validMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "PATCH": true, "DELETE": true,
}

var validStatuses = map[string]bool{
	"planned": true, "in-progress": true, "completed": true, "deprecated": true,
}
