// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"medcost-service/pkg/registry"
)

const defaultPath = "configs/endpoint-registry.json"

var registryPath string

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)

	for _, fs := range []*flag.FlagSet{addCmd, updateCmd, validateCmd, listCmd} {
		fs.StringVar(&registryPath, "path", defaultPath, "Path to registry file")
	}

	// Add command flags
	idAdd := addCmd.String("id", "", "Endpoint ID (e.g., profile-disease)")
	method := addCmd.String("method", "GET", "HTTP method")
	path := addCmd.String("route", "", "Route path (e.g., /api/profile-disease)")
	handlerName := addCmd.String("handler", "", "Handler name (e.g., profile-disease)")
	description := addCmd.String("description", "", "Description")
	category := addCmd.String("category", "", "Category (e.g., ai, auth, analytics)")
	authRequired := addCmd.Bool("auth", false, "Requires a bearer token")
	status := addCmd.String("status", "planned", "Status (planned, in-progress, completed, deprecated)")

	// Update command flags
	idUpdate := updateCmd.String("id", "", "Endpoint ID to update")
	field := updateCmd.String("field", "", "Field to update (status, method, route, handler, description, category, auth)")
	value := updateCmd.String("value", "", "New value for the field")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		addCmd.Parse(os.Args[2:])
		if *idAdd == "" || *path == "" || *description == "" || *category == "" {
			fmt.Println("Error: id, route, description, and category are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		endpoint := registry.Endpoint{
			ID:          *idAdd,
			Method:      strings.ToUpper(*method),
			Path:        *path,
			Handler:     *handlerName,
			Description: *description,
			Category:    *category,
			Auth:        *authRequired,
			Status:      *status,
			ErrorCodes:  []string{},
			Tags:        []string{},
		}
		if err := addEndpoint(endpoint); err != nil {
			fmt.Printf("Error adding endpoint: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added endpoint: %s %s\n", endpoint.Method, endpoint.Path)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateEndpoint(*idUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating endpoint: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated endpoint %s, field %s to %s\n", *idUpdate, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(registryPath)
		if err == nil {
			err = reg.Validate()
		}
		if err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Registry validation passed. Found %d endpoints.\n", len(reg.Endpoints))

	case "list":
		listCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(registryPath)
		if err != nil {
			fmt.Printf("Error loading registry: %v\n", err)
			os.Exit(1)
		}
		for _, e := range reg.Endpoints {
			lock := ""
			if e.Auth {
				lock = " [auth]"
			}
			fmt.Printf("%-7s %-32s %-12s %s%s\n", e.Method, e.Path, e.Status, e.ID, lock)
		}

	case "help":
		fallthrough
	default:
		help()
	}
}

func addEndpoint(endpoint registry.Endpoint) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		reg = &registry.EndpointRegistry{
			Service:   "medcost-service",
			Message:   "Cost Prediction Treatment API",
			Version:   "1.0",
			Endpoints: []registry.Endpoint{},
		}
	}

	if _, exists := reg.Find(endpoint.ID); exists {
		return fmt.Errorf("endpoint with ID %s already exists", endpoint.ID)
	}

	reg.Endpoints = append(reg.Endpoints, endpoint)
	if err := reg.Validate(); err != nil {
		return err
	}
	reg.LastUpdated = time.Now().Format(time.RFC3339)
	return registry.Save(reg, registryPath)
}

func updateEndpoint(id, field, value string) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	e, found := reg.Find(id)
	if !found {
		return fmt.Errorf("endpoint with ID %s not found", id)
	}

	switch field {
	case "status":
		e.Status = value
	case "method":
		e.Method = strings.ToUpper(value)
	case "route":
		e.Path = value
	case "handler":
		e.Handler = value
	case "description":
		e.Description = value
	case "category":
		e.Category = value
	case "auth":
		required, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid auth value: %w", err)
		}
		e.Auth = required
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	if err := reg.Validate(); err != nil {
		return err
	}
	reg.LastUpdated = time.Now().Format(time.RFC3339)
	return registry.Save(reg, registryPath)
}

func help() {
	fmt.Print(`
Usage: registry-updater <command> [flags]

Commands:
  add      Add a new endpoint to the registry
  update   Update an existing endpoint's field
  validate Validate the registry file
  list     Print the registered routes
  help     Show this help message

Examples:
  registry-updater add -id profile-disease -method POST -route /api/profile-disease -handler profile-disease -description "Estimate a cost range from a disease description" -category ai
  registry-updater update -id profile-disease -field status -value completed
  registry-updater validate -path configs/endpoint-registry.json

Use 'registry-updater <command> -h' for more information about a command.
`+"\n")
}
