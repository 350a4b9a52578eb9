package hotjson

import "github.com/santhosh-tekuri/jsonschema/v5"

// schemaJSON is the contract for hotstring definition documents. Documents
// are validated against it before decoding so malformed configurations fail
// with a precise location instead of a partial load.
const schemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "hotstringd definitions",
  "type": "object",
  "required": ["hotstrings"],
  "additionalProperties": false,
  "properties": {
    "endchars": {
      "type": "string",
      "minLength": 1
    },
    "hotstrings": {
      "type": "object",
      "minProperties": 1,
      "propertyNames": {"minLength": 1},
      "additionalProperties": {"$ref": "#/$defs/hotstring"}
    }
  },
  "$defs": {
    "command": {
      "oneOf": [
        {"type": "string", "minLength": 1},
        {"type": "array", "items": {"type": "string", "minLength": 1}, "minItems": 1}
      ]
    },
    "hotstring": {
      "type": "object",
      "additionalProperties": false,
      "oneOf": [
        {"required": ["replace"]},
        {"required": ["run-replace"]},
        {"required": ["run-replace-raw"]},
        {"required": ["run"]}
      ],
      "properties": {
        "replace": {"type": "string"},
        "run-replace": {"$ref": "#/$defs/command"},
        "run-replace-raw": {"$ref": "#/$defs/command"},
        "run": {"$ref": "#/$defs/command"},
        "flags": {
          "type": "array",
          "uniqueItems": true,
          "items": {
            "enum": [
              "no-end-char",
              "case-sensitive",
              "match-suffix",
              "ignore-case",
              "no-backspace",
              "omit-end-char"
            ]
          }
        }
      }
    }
  }
}`

var schema = jsonschema.MustCompileString("hotstrings.schema.json", schemaJSON)
