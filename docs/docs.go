// Package docs holds the Swagger document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/entries": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Filters entries by description substring and due date range. Omitting page and size returns every match.",
                "produces": ["application/json"],
                "tags": ["entries"],
                "summary": "Search ledger entries",
                "parameters": [
                    {"type": "string", "description": "Case-insensitive description substring", "name": "description", "in": "query"},
                    {"type": "string", "description": "Due date lower bound (YYYY-MM-DD, inclusive)", "name": "dueDateFrom", "in": "query"},
                    {"type": "string", "description": "Due date upper bound (YYYY-MM-DD, inclusive)", "name": "dueDateTo", "in": "query"},
                    {"type": "integer", "description": "Zero-based page number", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "size", "in": "query"},
                    {"enum": ["criteria", "text"], "type": "string", "description": "Query builder: criteria or text", "name": "mode", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.EntriesSearchResult"}},
                    "400": {"description": "Validation errors", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "string"}},
                    "500": {"description": "Server error", "schema": {"type": "string"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HealthResult"}}
                }
            }
        },
        "/oauth/token": {
            "post": {
                "description": "Password grant takes username and password. Refresh grant reads refresh_token from the form or from the refreshToken cookie. The new refresh token is returned as an HttpOnly cookie.",
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Issue access tokens",
                "parameters": [
                    {"type": "string", "description": "password or refresh_token", "name": "grant_type", "in": "formData", "required": true},
                    {"type": "string", "description": "Username (password grant)", "name": "username", "in": "formData"},
                    {"type": "string", "description": "Password (password grant)", "name": "password", "in": "formData"},
                    {"type": "string", "description": "Refresh token (refresh grant, cookie takes precedence)", "name": "refresh_token", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.TokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.OAuthError"}},
                    "429": {"description": "Too many requests", "schema": {"type": "string"}}
                }
            },
            "delete": {
                "description": "Revokes the refresh token held in the refreshToken cookie and expires the cookie.",
                "tags": ["auth"],
                "summary": "Revoke the refresh token",
                "responses": {
                    "204": {"description": "No Content"},
                    "500": {"description": "Server error", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.EntriesSearchResult": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/handlers.EntryResponse"}},
                "meta": {"$ref": "#/definitions/handlers.Meta"}
            }
        },
        "handlers.EntryResponse": {
            "type": "object",
            "properties": {
                "category_code": {"type": "integer"},
                "code": {"type": "integer"},
                "description": {"type": "string"},
                "due_date": {"type": "string"},
                "note": {"type": "string"},
                "payment_date": {"type": "string"},
                "person_code": {"type": "integer"},
                "type": {"type": "string"},
                "value": {"type": "string"}
            }
        },
        "handlers.HealthResult": {
            "type": "object",
            "properties": {
                "status": {"type": "string"}
            }
        },
        "handlers.Meta": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "size": {"type": "integer"},
                "total_count": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "handlers.OAuthError": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "error_description": {"type": "string"}
            }
        },
        "handlers.TokenResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "expires_in": {"type": "integer"},
                "token_type": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Algamoney API",
	Description:      "Ledger entry search and OAuth token endpoints.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
