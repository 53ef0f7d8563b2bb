// Package docs registers the OpenAPI description of the kancl API with swag.
// Regenerate with: swag init -g cmd/api/main.go
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
        "/api/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {
                        "description": "Login credentials",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.loginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.loginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.loginResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/auth/logout": {
            "post": {
                "consumes": ["application/json"],
                "tags": ["auth"],
                "summary": "Logout",
                "parameters": [
                    {
                        "description": "Session to close; defaults to the bearer session",
                        "name": "body",
                        "in": "body",
                        "schema": {"$ref": "#/definitions/handler.logoutRequest"}
                    }
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/auth/session": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Resolve session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/users/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/tasks": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "List tasks",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Task"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/translations/locales": {
            "get": {
                "produces": ["application/json"],
                "tags": ["translations"],
                "summary": "Available locales",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "string"}}}
                }
            }
        },
        "/api/translations/{locale}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["translations"],
                "summary": "Get translations",
                "parameters": [
                    {"type": "string", "description": "Locale code, e.g. en", "name": "locale", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Translation"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "tags": ["translations"],
                "summary": "Set translation key",
                "parameters": [
                    {"type": "string", "description": "Locale code", "name": "locale", "in": "path", "required": true},
                    {
                        "description": "Key and value",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.upsertTranslationRequest"}
                    }
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Task": {
            "type": "object",
            "properties": {
                "creationTime": {"type": "string"},
                "id": {"type": "string"},
                "isCompleted": {"type": "boolean"},
                "text": {"type": "string"}
            }
        },
        "domain.Translation": {
            "type": "object",
            "properties": {
                "locale": {"type": "string"},
                "translations": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "domain.UserView": {
            "type": "object",
            "properties": {
                "avatarUrl": {"type": "string"},
                "createdAt": {"type": "string"},
                "email": {"type": "string"},
                "emailVerified": {"type": "boolean"},
                "firstName": {"type": "string"},
                "id": {"type": "string"},
                "isActive": {"type": "boolean"},
                "lastLoginAt": {"type": "string"},
                "lastName": {"type": "string"},
                "locale": {"type": "string"},
                "organizationId": {"type": "string"},
                "phone": {"type": "string"},
                "role": {"type": "string", "enum": ["personal", "owner", "admin", "manager", "employee"]}
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.loginResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "sessionId": {"type": "string"},
                "success": {"type": "boolean"},
                "user": {"$ref": "#/definitions/domain.UserView"}
            }
        },
        "handler.logoutRequest": {
            "type": "object",
            "properties": {"sessionId": {"type": "string"}}
        },
        "handler.sessionResponse": {
            "type": "object",
            "properties": {"user": {"$ref": "#/definitions/domain.UserView"}}
        },
        "handler.upsertTranslationRequest": {
            "type": "object",
            "required": ["key"],
            "properties": {
                "key": {"type": "string"},
                "value": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Session id issued by /api/auth/login, sent as \"Bearer <sessionId>\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "kancl API",
	Description:      "Session-based authentication, tasks and translations for kancl.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
