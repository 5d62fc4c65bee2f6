// cmd/tools/handler-generator/main.go
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/format"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"medcost-service/pkg/registry"
)

// HandlerData holds data for templates
type HandlerData struct {
	Name        string
	PackageName string
	Method      string
	MethodConst string
	Path        string
	Description string
	Category    string
	Fields      []Field
}

// Field is one top-level property of the request body.
type Field struct {
	JSONName string
	JSONType string
	GoName   string
	GoType   string
}

var templates = map[string]string{
	"config.go":       configTemplate,
	"models.go":       modelsTemplate,
	"service.go":      serviceTemplate,
	"validation.go":   validationTemplate,
	"handler.go":      handlerTemplate,
	"handler_test.go": testTemplate,
}

// goTypeFromJSONType maps JSON schema types to Go types
func goTypeFromJSONType(jsonType string) string {
	switch jsonType {
	case "string":
		return "string"
	case "number", "integer":
		return "float64"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		return "[]interface{}"
	default:
		return "interface{}"
	}
}

// goName converts snake_case or kebab-case to an exported identifier.
func goName(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' })
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "")
}

// parseFields reads "name:type,name:type". The type defaults to string.
func parseFields(spec string) ([]Field, error) {
	var fields []Field
	for _, item := range strings.Split(spec, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, jsonType, found := strings.Cut(item, ":")
		if !found {
			jsonType = "string"
		}
		if name == "" {
			return nil, fmt.Errorf("empty field name in %q", item)
		}
		fields = append(fields, Field{
			JSONName: name,
			JSONType: jsonType,
			GoName:   goName(name),
			GoType:   goTypeFromJSONType(jsonType),
		})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].JSONName < fields[j].JSONName })
	return fields, nil
}

func newHandlerData(e registry.Endpoint, fields []Field) HandlerData {
	name := e.Handler
	if name == "" {
		name = e.ID
	}
	method := strings.ToUpper(e.Method)
	return HandlerData{
		Name:        name,
		PackageName: strings.ReplaceAll(name, "-", ""),
		Method:      method,
		MethodConst: "Method" + strings.ToUpper(method[:1]) + strings.ToLower(method[1:]),
		Path:        e.Path,
		Description: e.Description,
		Category:    e.Category,
		Fields:      fields,
	}
}

// render executes every template and gofmts the result.
func render(data HandlerData) (map[string][]byte, error) {
	out := make(map[string][]byte, len(templates))
	for filename, tmplStr := range templates {
		tmpl, err := template.New(filename).Parse(tmplStr)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", filename, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("execute template %s: %w", filename, err)
		}
		src, err := format.Source(buf.Bytes())
		if err != nil {
			return nil, fmt.Errorf("format %s: %w", filename, err)
		}
		out[filename] = src
	}
	return out, nil
}

func main() {
	endpointID := flag.String("endpoint", "", "Endpoint ID from registry (e.g., profile-disease)")
	outputDir := flag.String("output", "./internal/handlers/", "Output directory for the generated handler")
	registryPath := flag.String("registry", "configs/endpoint-registry.json", "Path to the endpoint registry JSON file")
	fieldSpec := flag.String("fields", "", "Request body fields as name:type pairs (e.g., message:string,limit:integer)")
	force := flag.Bool("force", false, "Overwrite an existing package")
	flag.Parse()

	if *endpointID == "" {
		fmt.Println("Error: -endpoint is required")
		flag.Usage()
		os.Exit(1)
	}

	reg, err := registry.LoadRegistry(*registryPath)
	if err != nil {
		fmt.Printf("Error loading registry: %v\n", err)
		os.Exit(1)
	}

	endpoint, found := reg.Find(*endpointID)
	if !found {
		fmt.Printf("Endpoint '%s' not found in registry %s\n", *endpointID, *registryPath)
		os.Exit(1)
	}
	if endpoint.Method != http.MethodGet && endpoint.Method != http.MethodPost {
		fmt.Printf("Unsupported method %s; the router only serves GET and POST\n", endpoint.Method)
		os.Exit(1)
	}

	fields, err := parseFields(*fieldSpec)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	data := newHandlerData(*endpoint, fields)

	handlerDir := filepath.Join(*outputDir, strings.ToLower(data.Category), data.Name)
	if _, err := os.Stat(handlerDir); err == nil && !*force {
		fmt.Printf("Error: %s already exists (use -force to overwrite)\n", handlerDir)
		os.Exit(1)
	}

	files, err := render(data)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(handlerDir, 0o755); err != nil {
		fmt.Printf("Error creating directory: %v\n", err)
		os.Exit(1)
	}
	for filename, src := range files {
		path := filepath.Join(handlerDir, filename)
		if err := os.WriteFile(path, src, 0o644); err != nil {
			fmt.Printf("Error writing %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("✓ Generated %s\n", path)
	}

	fmt.Printf("\n✅ Handler scaffold generated successfully at: %s\n", handlerDir)
	fmt.Printf("\nNext steps:\n")
	fmt.Printf("  1. Implement business logic in service.go\n")
	fmt.Printf("  2. Tighten the schema in validation.go\n")
	fmt.Printf("  3. Write tests in handler_test.go\n")
	fmt.Printf("  4. Mount the handler in internal/api/server.go\n")
	fmt.Printf("  5. Add configuration to configs/config.yaml\n")
}
