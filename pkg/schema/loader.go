package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"

	"github.com/developer-mesh/awsquery/pkg/observability"
)

// modelFileName is the botocore service definition file name
const modelFileName = "service-2.json"

// modelDocumentSchema validates the gross structure of a service model
// document before it is trusted. Malformed hand-edited models fail here
// instead of panicking deep inside shape traversal.
const modelDocumentSchema = `{
  "type": "object",
  "required": ["metadata", "operations", "shapes"],
  "properties": {
    "metadata": {"type": "object"},
    "operations": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "input": {"type": "object", "required": ["shape"]},
          "output": {"type": "object", "required": ["shape"]}
        }
      }
    },
    "shapes": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["type"]
      }
    }
  }
}`

// Loader reads botocore-format service models from a list of model
// directories, laid out <path>/<service>/<api-version>/service-2.json. The
// latest api-version directory wins, matching botocore's loader.
type Loader struct {
	paths    []string
	document *gojsonschema.Schema
	logger   observability.Logger
}

// NewLoader creates a Loader searching the given model directories in order
func NewLoader(paths []string, logger observability.Logger) (*Loader, error) {
	if logger == nil {
		logger = observability.NewNoopLogger()
	}
	document, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(modelDocumentSchema))
	if err != nil {
		return nil, errors.Wrap(err, "compiling model document schema")
	}
	return &Loader{paths: paths, document: document, logger: logger}, nil
}

// Load reads the latest service model for a service. It returns the parsed
// model and the api version it came from.
func (l *Loader) Load(service string) (*serviceModel, string, error) {
	dir, version, err := l.latestVersionDir(service)
	if err != nil {
		return nil, "", err
	}

	raw, err := os.ReadFile(filepath.Join(dir, modelFileName))
	if err != nil {
		return nil, "", errors.Wrapf(err, "reading model for service %q", service)
	}

	result, err := l.document.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, "", errors.Wrapf(err, "validating model for service %q", service)
	}
	if !result.Valid() {
		return nil, "", errors.Errorf("model for service %q is not a valid service document: %v",
			service, result.Errors())
	}

	var model serviceModel
	if err := json.Unmarshal(raw, &model); err != nil {
		return nil, "", errors.Wrapf(err, "parsing model for service %q", service)
	}

	l.logger.Debug("Loaded service model", map[string]interface{}{
		"service":     service,
		"api_version": version,
		"operations":  len(model.Operations),
	})
	return &model, version, nil
}

// Services lists the service names available across all model directories
func (l *Loader) Services() []string {
	seen := map[string]bool{}
	var services []string
	for _, path := range l.paths {
		entries, err := os.ReadDir(path)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() && !seen[entry.Name()] {
				seen[entry.Name()] = true
				services = append(services, entry.Name())
			}
		}
	}
	sort.Strings(services)
	return services
}

// latestVersionDir finds the newest api-version directory for a service.
// Version directories are dates (2017-11-01), so lexical order is
// chronological order.
func (l *Loader) latestVersionDir(service string) (string, string, error) {
	for _, path := range l.paths {
		serviceDir := filepath.Join(path, service)
		entries, err := os.ReadDir(serviceDir)
		if err != nil {
			continue
		}

		var versions []string
		for _, entry := range entries {
			if entry.IsDir() {
				versions = append(versions, entry.Name())
			}
		}
		if len(versions) == 0 {
			continue
		}
		sort.Strings(versions)
		latest := versions[len(versions)-1]
		return filepath.Join(serviceDir, latest), latest, nil
	}
	return "", "", errors.Errorf("no model found for service %q in %v", service, l.paths)
}
