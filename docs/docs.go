// Package docs registra el documento Swagger de la API (servido en /swagger/*).
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
        "/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Registrar usuario y emitir token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/users.RegisterInput"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/auth.registerResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/respond.ValidationFailure"}}
                }
            }
        },
        "/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login con límite de intentos por email+IP",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/auth.Credentials"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.tokenResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/respond.ValidationFailure"}}
                }
            }
        },
        "/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Revocar el token actual",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Message"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/respond.Message"}}
                }
            }
        },
        "/user": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["user"],
                "summary": "Usuario autenticado",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/users.UserResponse"}}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["user"],
                "summary": "Actualizar perfil",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/users.UpdateProfileInput"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/users.userMessageResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/respond.ValidationFailure"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["user"],
                "summary": "Eliminar la cuenta (mascotas y tokens incluidos)",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Message"}}}
            }
        },
        "/user/password": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["user"],
                "summary": "Cambiar contraseña (revoca todos los tokens)",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/users.ChangePasswordInput"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Message"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/respond.ValidationFailure"}}
                }
            }
        },
        "/pets": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["pets"],
                "summary": "Mascotas del usuario autenticado",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/pets.petResponse"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["pets"],
                "summary": "Crear mascota (el dueño es el usuario autenticado)",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/pets.CreateInput"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/pets.petMessageResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/respond.ValidationFailure"}}
                }
            }
        },
        "/pets/all": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["pets"],
                "summary": "Directorio paginado de todas las mascotas",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "default": 1, "description": "Página (1..n)", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Tamaño de página (máx. 100)", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.pageResponse"}}}
            }
        },
        "/pets/{petID}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["pets"],
                "summary": "Ver una mascota",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "ID de la mascota", "name": "petID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.petResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.Message"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["pets"],
                "summary": "Actualizar mascota (solo el dueño; solo los campos enviados)",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "ID de la mascota", "name": "petID", "in": "path", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/pets.UpdateInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.petMessageResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/respond.Message"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.Message"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/respond.ValidationFailure"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["pets"],
                "summary": "Actualizar mascota (solo el dueño; solo los campos enviados)",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "ID de la mascota", "name": "petID", "in": "path", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/pets.UpdateInput"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.petMessageResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/respond.Message"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.Message"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["pets"],
                "summary": "Eliminar mascota (solo el dueño)",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "ID de la mascota", "name": "petID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/respond.Message"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/respond.Message"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/respond.Message"}}
                }
            }
        },
        "/cats/breeds": {
            "get": {
                "tags": ["cats"],
                "summary": "Razas de gatos (proxy a TheCatAPI)",
                "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "default": 5, "name": "limit", "in": "query"},
                    {"type": "integer", "default": 1, "name": "page", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/respond.Message"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/respond.Message"}}
                }
            }
        },
        "/cats/random": {
            "get": {
                "tags": ["cats"],
                "summary": "Gato aleatorio (proxy a TheCatAPI)",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/respond.Message"}}
                }
            }
        }
    },
    "definitions": {
        "respond.Message": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "respond.ValidationFailure": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "errors": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}}
            }
        },
        "auth.Credentials": {
            "type": "object",
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}, "remember": {"type": "boolean"}}
        },
        "auth.tokenResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "access_token": {"type": "string"}, "token_type": {"type": "string"}}
        },
        "auth.registerResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "user": {"$ref": "#/definitions/users.UserResponse"},
                "access_token": {"type": "string"},
                "token_type": {"type": "string"}
            }
        },
        "users.RegisterInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "password_confirmation": {"type": "string"},
                "birthdate": {"type": "string", "example": "2000-01-31"}
            }
        },
        "users.UpdateProfileInput": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "birthdate": {"type": "string"}}
        },
        "users.ChangePasswordInput": {
            "type": "object",
            "properties": {
                "current_password": {"type": "string"},
                "password": {"type": "string"},
                "password_confirmation": {"type": "string"}
            }
        },
        "users.UserResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "email": {"type": "string"},
                "birthdate": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "users.userMessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "user": {"$ref": "#/definitions/users.UserResponse"}}
        },
        "pets.CreateInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "species": {"type": "string"},
                "breed": {"type": "string"},
                "age": {"type": "integer", "minimum": 0}
            }
        },
        "pets.UpdateInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "species": {"type": "string"},
                "breed": {"type": "string", "x-nullable": true},
                "age": {"type": "integer", "minimum": 0, "x-nullable": true}
            }
        },
        "pets.petResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "species": {"type": "string"},
                "breed": {"type": "string"},
                "age": {"type": "integer"},
                "user_id": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "pets.petMessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "pet": {"$ref": "#/definitions/pets.petResponse"}}
        },
        "pets.pageResponse": {
            "type": "object",
            "properties": {
                "current_page": {"type": "integer"},
                "data": {"type": "array", "items": {"$ref": "#/definitions/pets.petResponse"}},
                "from": {"type": "integer"},
                "last_page": {"type": "integer"},
                "per_page": {"type": "integer"},
                "to": {"type": "integer"},
                "total": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Bearer <token>",
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
	Title:            "Pet Manager API",
	Description:      "Usuarios, mascotas y proxy a TheCatAPI.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
