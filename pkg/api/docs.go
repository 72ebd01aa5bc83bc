package api

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/parse": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["text/plain"],
                "produces": ["application/json"],
                "tags": ["codec"],
                "summary": "Parse bodyfile lines",
                "parameters": [
                    {"description": "Bodyfile text", "name": "body", "in": "body", "required": true, "schema": {"type": "string"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ParseResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/format": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["codec"],
                "summary": "Format a record",
                "parameters": [
                    {"description": "Record", "name": "record", "in": "body", "required": true, "schema": {"$ref": "#/definitions/bodyfile.Record"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.FormatResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/records": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "List records",
                "parameters": [
                    {"type": "integer", "default": 100, "description": "Maximum number of records", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/api.StoredRecord"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["text/plain"],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Import records",
                "parameters": [
                    {"description": "Bodyfile text", "name": "body", "in": "body", "required": true, "schema": {"type": "string"}},
                    {"type": "boolean", "description": "Skip lines that fail to parse", "name": "skip_invalid", "in": "query"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/api.ImportResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/records/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Get a record",
                "parameters": [
                    {"type": "string", "description": "Record id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.StoredRecord"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            },
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Replace a record",
                "parameters": [
                    {"type": "string", "description": "Record id", "name": "id", "in": "path", "required": true},
                    {"description": "Record", "name": "record", "in": "body", "required": true, "schema": {"$ref": "#/definitions/bodyfile.Record"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.StoredRecord"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["records"],
                "summary": "Delete a record",
                "parameters": [
                    {"type": "string", "description": "Record id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "api.FormatResponse": {
            "type": "object",
            "properties": {
                "line": {"type": "string"}
            }
        },
        "api.ImportResponse": {
            "type": "object",
            "properties": {
                "ids": {"type": "array", "items": {"type": "string"}},
                "skipped": {"type": "integer"}
            }
        },
        "api.LineErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "line": {"type": "integer"}
            }
        },
        "api.ParseResponse": {
            "type": "object",
            "properties": {
                "errors": {"type": "array", "items": {"$ref": "#/definitions/api.LineErrorResponse"}},
                "records": {"type": "array", "items": {"$ref": "#/definitions/bodyfile.Record"}}
            }
        },
        "api.StoredRecord": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "line": {"type": "string"},
                "record": {"$ref": "#/definitions/bodyfile.Record"}
            }
        },
        "bodyfile.Record": {
            "type": "object",
            "properties": {
                "md5": {"type": "string"},
                "name": {"type": "string"},
                "inode": {"type": "string"},
                "mode": {"type": "string"},
                "uid": {"type": "integer"},
                "gid": {"type": "integer"},
                "size": {"type": "integer"},
                "atime": {"type": "integer"},
                "mtime": {"type": "integer"},
                "ctime": {"type": "integer"},
                "crtime": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Bodyfile REST API",
	Description:      "REST API for parsing, formatting and cataloguing bodyfile v3 records.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
