// Package docs registra la especificación OpenAPI que sirve /swagger/*.
// Se regenera con: swag init -g cmd/api/main.go
package docs

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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/api/auth/signup": {
            "post": {
                "tags": ["auth"],
                "summary": "Crear cuenta",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/signupRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/userSummary"}}, "400": {"description": "Bad Request"}, "409": {"description": "email already exists"}}
            }
        },
        "/api/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Iniciar sesión",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/loginRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/session"}}, "400": {"description": "bad username or password"}}
            }
        },
        "/api/auth/refresh-token": {
            "post": {
                "tags": ["auth"],
                "summary": "Rotar refresh token (Bearer refresh token)",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/session"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}
            }
        },
        "/api/auth/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Cerrar sesión",
                "responses": {"204": {"description": "No Content"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}
            }
        },
        "/api/users/search/{q}": {
            "get": {
                "tags": ["users"],
                "summary": "Buscar usuarios por nombre o email",
                "parameters": [{"in": "path", "name": "q", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/userSummary"}}}}
            }
        },
        "/api/users/{userID}/today-tasks": {
            "get": {
                "tags": ["pets"],
                "summary": "Tareas de hoy del usuario",
                "parameters": [{"in": "path", "name": "userID", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/pets": {
            "get": {"tags": ["pets"], "summary": "Listar mascotas", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["pets"], "summary": "Crear mascota", "responses": {"201": {"description": "Created"}, "400": {"description": "name is required"}}}
        },
        "/api/pets/{petID}/tasks": {
            "post": {
                "tags": ["pets"],
                "summary": "Agregar tarea",
                "parameters": [{"in": "path", "name": "petID", "type": "string", "required": true}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "404": {"description": "pet not found"}}
            }
        },
        "/api/groups": {
            "get": {"tags": ["groups"], "summary": "Listar grupos", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["groups"], "summary": "Crear grupo", "responses": {"201": {"description": "Created"}}}
        },
        "/api/clubs": {
            "get": {"tags": ["clubs"], "summary": "Listar clubes", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["clubs"], "summary": "Crear club", "responses": {"201": {"description": "Created"}}}
        },
        "/api/books": {
            "get": {"tags": ["books"], "summary": "Listar libros (?clubId=)", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["books"], "summary": "Agregar libro a un club", "responses": {"201": {"description": "Created"}, "404": {"description": "club not found"}}}
        },
        "/api/readings/{readingID}/progress": {
            "post": {
                "tags": ["readings"],
                "summary": "Registrar avance de lectura",
                "parameters": [{"in": "path", "name": "readingID", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        }
    },
    "definitions": {
        "signupRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}, "name": {"type": "string"}}
        },
        "loginRequest": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "session": {
            "type": "object",
            "properties": {"userId": {"type": "string"}, "accessToken": {"type": "string"}, "refreshToken": {"type": "string"}}
        },
        "userSummary": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "email": {"type": "string"}}
        }
    }
}`

// SwaggerInfo contiene la info exportada del spec.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "pet-care-hub API",
	Description:      "Mascotas compartidas, grupos, clubes de lectura y avisos de tareas.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
