package httpapi

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"
)

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "mlactions API",
	Description:      "HTTP API for hosting ML actions: one-time setup and per-request invocation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// MountSwagger serves the UI under /swagger/ and the document at
// /swagger/doc.json.
func MountSwagger(r chi.Router) {
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "{{.Title}}",
    "description": "{{escape .Description}}",
    "version": "{{.Version}}"
  },
  "basePath": "{{.BasePath}}",
  "schemes": {{ marshal .Schemes }},
  "paths": {
    "/actions": {
      "get": {
        "summary": "List registered actions",
        "produces": ["application/json"],
        "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ActionsResponse"}}}
      }
    },
    "/actions/{name}/setup": {
      "post": {
        "summary": "Run the one-time setup stage",
        "consumes": ["application/json"],
        "produces": ["application/json"],
        "parameters": [
          {"name": "name", "in": "path", "required": true, "type": "string"},
          {"name": "body", "in": "body", "schema": {"$ref": "#/definitions/SetupRequest"}}
        ],
        "responses": {
          "200": {"description": "OK", "schema": {"$ref": "#/definitions/SetupResponse"}},
          "403": {"description": "Already initialized", "schema": {"$ref": "#/definitions/ErrorResponse"}},
          "404": {"description": "Unknown action", "schema": {"$ref": "#/definitions/ErrorResponse"}},
          "502": {"description": "Setup failed", "schema": {"$ref": "#/definitions/SetupResponse"}}
        }
      }
    },
    "/actions/{name}/run": {
      "post": {
        "summary": "Invoke the action",
        "consumes": ["application/json"],
        "produces": ["application/json"],
        "parameters": [
          {"name": "name", "in": "path", "required": true, "type": "string"},
          {"name": "args", "in": "body", "schema": {"type": "object"}}
        ],
        "responses": {
          "200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}},
          "404": {"description": "Unknown action", "schema": {"$ref": "#/definitions/ErrorResponse"}},
          "503": {"description": "Pipeline unavailable", "schema": {"$ref": "#/definitions/ErrorResponse"}}
        }
      }
    },
    "/actions/{name}/status": {
      "get": {
        "summary": "Report the stored setup status",
        "produces": ["application/json"],
        "parameters": [{"name": "name", "in": "path", "required": true, "type": "string"}],
        "responses": {
          "200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}},
          "404": {"description": "No status", "schema": {"$ref": "#/definitions/ErrorResponse"}}
        }
      }
    },
    "/activations/{id}": {
      "get": {
        "summary": "Get an activation record",
        "produces": ["application/json"],
        "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
        "responses": {
          "200": {"description": "OK", "schema": {"$ref": "#/definitions/Activation"}},
          "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
        }
      }
    },
    "/init": {
      "post": {
        "summary": "Action-proxy init for the default action",
        "consumes": ["application/json"],
        "parameters": [{"name": "body", "in": "body", "schema": {"$ref": "#/definitions/InitRequest"}}],
        "responses": {"200": {"description": "OK"}, "403": {"description": "Already initialized"}, "502": {"description": "Setup failed"}}
      }
    },
    "/run": {
      "post": {
        "summary": "Action-proxy run for the default action",
        "consumes": ["application/json"],
        "parameters": [{"name": "body", "in": "body", "schema": {"$ref": "#/definitions/RunRequest"}}],
        "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Response"}}, "502": {"description": "Action error"}}
      }
    },
    "/healthz": {"get": {"summary": "Liveness", "responses": {"200": {"description": "ok"}}}},
    "/readyz": {"get": {"summary": "Readiness", "responses": {"200": {"description": "ready"}, "503": {"description": "not ready"}}}}
  },
  "definitions": {
    "ActionInfo": {"type": "object", "properties": {"name": {"type": "string"}, "state": {"type": "string"}, "setup_error": {"type": "string"}}},
    "ActionsResponse": {"type": "object", "properties": {"actions": {"type": "array", "items": {"$ref": "#/definitions/ActionInfo"}}}},
    "SetupRequest": {"type": "object", "properties": {"args": {"type": "object"}}},
    "SetupResponse": {"type": "object", "properties": {
      "action": {"type": "string"}, "state": {"type": "string"},
      "status": {"type": "array", "items": {"type": "string"}},
      "activation_id": {"type": "string"}, "error": {"type": "string"}}},
    "Response": {"type": "object", "properties": {"body": {}}},
    "Activation": {"type": "object", "properties": {
      "activation_id": {"type": "string"}, "action": {"type": "string"}, "kind": {"type": "string"},
      "start_unix_ms": {"type": "integer"}, "duration_ms": {"type": "integer"},
      "response": {"$ref": "#/definitions/Response"},
      "status": {"type": "array", "items": {"type": "string"}}, "error": {"type": "string"}}},
    "InitRequest": {"type": "object", "properties": {"value": {"type": "object", "properties": {"main": {"type": "string"}, "env": {"type": "object"}}}}},
    "RunRequest": {"type": "object", "properties": {"value": {"type": "object"}}},
    "ErrorResponse": {"type": "object", "properties": {"error": {"type": "string"}, "code": {"type": "integer"}}}
  }
}`
