package demographics

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xeipuuv/gojsonschema"

	"github.com/sells-group/demographics-cli/internal/model"
)

// reportSchema describes the public shape of a DemographicReport.
const reportSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["city_name", "state", "last_updated", "overview", "residents", "workers", "students", "market_analysis", "data_quality"],
  "properties": {
    "city_name": {"type": "string", "minLength": 1},
    "state": {"type": "string", "minLength": 1},
    "overview": {"type": "string"},
    "residents": {
      "type": "object",
      "required": ["total_population", "median_income", "percent_renters", "trends", "market_indicators"],
      "properties": {
        "total_population": {"type": "integer", "minimum": 0},
        "median_income": {"type": "integer", "minimum": 0},
        "percent_renters": {"type": "string", "pattern": "^[0-9]+(\\.[0-9])?$"},
        "market_indicators": {
          "type": "object",
          "properties": {
            "market_score": {"type": "number", "minimum": 0, "maximum": 10}
          }
        }
      }
    },
    "workers": {
      "type": "object",
      "required": ["business_opportunity"],
      "properties": {
        "business_opportunity": {
          "type": "object",
          "required": ["score", "factors"],
          "properties": {
            "score": {"type": "number", "minimum": 0, "maximum": 10},
            "factors": {"type": "array", "items": {"type": "string"}}
          }
        }
      }
    },
    "students": {
      "type": "object",
      "required": ["total_students", "market"],
      "properties": {
        "total_students": {"type": "integer", "minimum": 0},
        "market": {
          "type": "object",
          "properties": {
            "tier": {"enum": ["Very High", "High", "Moderate", "Low"]}
          }
        }
      }
    },
    "market_analysis": {
      "type": "object",
      "required": ["opportunities", "challenges", "overall_score"],
      "properties": {
        "opportunities": {"type": "array", "items": {"type": "string"}},
        "challenges": {"type": "array", "items": {"type": "string"}},
        "overall_score": {"type": "number", "minimum": 0, "maximum": 10}
      }
    },
    "data_quality": {
      "type": "object",
      "required": ["census", "employment", "education", "confidence"],
      "properties": {
        "confidence": {"type": "integer", "minimum": 0, "maximum": 100}
      }
    }
  }
}`

var reportSchemaLoader = gojsonschema.NewStringLoader(reportSchema)

// ValidateReport checks a report against the public report schema.
func ValidateReport(r *model.DemographicReport) error {
	if r == nil {
		return eris.New("demographics: nil report")
	}
	result, err := gojsonschema.Validate(reportSchemaLoader, gojsonschema.NewGoLoader(r))
	if err != nil {
		return eris.Wrap(err, "demographics: validate report")
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return eris.Errorf("demographics: invalid report: %s", strings.Join(errs, "; "))
	}
	return nil
}
