// Package docs regista a especificação OpenAPI servida em /swagger/.
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/register": {"post": {"tags": ["users"], "summary": "Regista um novo utilizador",
            "parameters": [{"in": "body", "name": "registration", "required": true, "schema": {"$ref": "#/definitions/domain.UserRegistration"}}],
            "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.User"}},
                          "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}},
                          "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}}}},
        "/login": {"post": {"tags": ["users"], "summary": "Autentica um utilizador e devolve um JWT",
            "parameters": [{"in": "body", "name": "login", "required": true, "schema": {"$ref": "#/definitions/domain.LoginRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/user.TokenResponse"}},
                          "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}}}},
        "/chapas": {
            "get": {"tags": ["inventario"], "summary": "Lista as chapas", "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Piece"}}}}},
            "post": {"tags": ["inventario"], "summary": "Regista uma chapa", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "peca", "required": true, "schema": {"$ref": "#/definitions/domain.Piece"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Piece"}}}}},
        "/chapas/{id}": {
            "get": {"tags": ["inventario"], "summary": "Busca uma chapa", "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Piece"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}}},
            "put": {"tags": ["inventario"], "summary": "Atualiza uma chapa", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}, {"in": "body", "name": "patch", "required": true, "schema": {"$ref": "#/definitions/domain.PiecePatch"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Piece"}}}},
            "delete": {"tags": ["inventario"], "summary": "Remove uma chapa (admin)", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}], "responses": {"204": {"description": "No Content"}}}},
        "/retalhos": {
            "get": {"tags": ["inventario"], "summary": "Lista os retalhos", "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Piece"}}}}},
            "post": {"tags": ["inventario"], "summary": "Regista um retalho", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "peca", "required": true, "schema": {"$ref": "#/definitions/domain.Piece"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Piece"}}}}},
        "/sobras": {"get": {"tags": ["inventario"], "summary": "Lista as sobras", "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Piece"}}}}}},
        "/cortes": {"get": {"tags": ["inventario"], "summary": "Lista os cortes", "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Piece"}}}}}},
        "/cortes/validar": {"post": {"tags": ["cortes"], "summary": "Valida cortes contra uma peça de origem",
            "parameters": [{"in": "body", "name": "pedido", "required": true, "schema": {"$ref": "#/definitions/cut.ValidateRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/cut.ValidateResponse"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}}}},
        "/cortes/simular": {"post": {"tags": ["cortes"], "summary": "Simula um lote de cortes",
            "parameters": [{"in": "body", "name": "pedido", "required": true, "schema": {"$ref": "#/definitions/domain.CommitRequest"}}],
            "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.RemnantPreview"}}, "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}}}},
        "/cortes/registar": {"post": {"tags": ["cortes"], "summary": "Regista um lote de cortes", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "body", "name": "pedido", "required": true, "schema": {"$ref": "#/definitions/domain.CommitRequest"}}],
            "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.CommitResult"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}, "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/domain.ErrorResponse"}}}}},
        "/cortes/etiquetas": {"get": {"tags": ["cortes"], "summary": "Gera etiquetas PDF com QR code", "produces": ["application/pdf"],
            "parameters": [{"in": "query", "name": "ids", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}}},
        "/inventario/resumo": {"get": {"tags": ["inventario"], "summary": "Totais do inventário", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.InventorySummary"}}}}},
        "/inventario/exportar": {"get": {"tags": ["inventario"], "summary": "Exporta o inventário em XLSX", "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"], "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}}}
    },
    "definitions": {
        "domain.CutRequest": {"type": "object", "properties": {"width": {"type": "integer"}, "height": {"type": "integer"}}},
        "domain.Piece": {"type": "object", "properties": {
            "id": {"type": "string"}, "kind": {"type": "string", "enum": ["chapa", "retalho", "sobra", "corte"]},
            "width": {"type": "integer"}, "height": {"type": "integer"}, "thickness": {"type": "string", "example": "3"},
            "color": {"type": "string"}, "quantity": {"type": "integer"}, "location": {"type": "string"},
            "origin_sheet": {"type": "string"}, "cut_area": {"type": "number"}, "created_at": {"type": "string"}}},
        "domain.PiecePatch": {"type": "object", "properties": {
            "width": {"type": "integer"}, "height": {"type": "integer"}, "thickness": {"type": "string"}, "color": {"type": "string"},
            "quantity": {"type": "integer"}, "location": {"type": "string"}, "origin_sheet": {"type": "string"}, "cut_area": {"type": "number"}}},
        "domain.CommitRequest": {"type": "object", "properties": {
            "source_kind": {"type": "string", "enum": ["chapa", "retalho", "sobra"]}, "source_id": {"type": "string"},
            "cuts": {"type": "array", "items": {"$ref": "#/definitions/domain.CutRequest"}},
            "policy": {"type": "string", "enum": ["integral", "proporcional", "manual"]},
            "manual_remnant": {"$ref": "#/definitions/domain.CutRequest"}}},
        "domain.CommitResult": {"type": "object", "properties": {
            "cuts_created": {"type": "integer"}, "cuts": {"type": "array", "items": {"$ref": "#/definitions/domain.Piece"}},
            "leftover_created": {"$ref": "#/definitions/domain.Piece"}, "source": {"$ref": "#/definitions/domain.Piece"}, "source_removed": {"type": "boolean"}}},
        "domain.CutVerdict": {"type": "object", "properties": {
            "index": {"type": "integer"}, "width": {"type": "integer"}, "height": {"type": "integer"}, "ok": {"type": "boolean"},
            "reason": {"type": "string"}, "message": {"type": "string"}}},
        "domain.RemnantPreview": {"type": "object", "properties": {
            "source": {"$ref": "#/definitions/domain.Piece"}, "policy": {"type": "string"}, "leftover": {"$ref": "#/definitions/domain.Piece"},
            "source_area": {"type": "number"}, "cut_area": {"type": "number"}, "remaining_area": {"type": "number"}}},
        "domain.InventorySummary": {"type": "object", "properties": {
            "sheet_records": {"type": "integer"}, "sheet_units": {"type": "integer"}, "depleted_sheets": {"type": "integer"},
            "sheet_area": {"type": "number"}, "scrap_count": {"type": "integer"}, "scrap_area": {"type": "number"},
            "leftover_count": {"type": "integer"}, "leftover_area": {"type": "number"}, "leftover_available_area": {"type": "number"},
            "cut_count": {"type": "integer"}, "cut_area": {"type": "number"},
            "sheet_units_by_color": {"type": "array", "items": {"type": "object", "properties": {"color": {"type": "string"}, "units": {"type": "integer"}}}}}},
        "domain.ErrorResponse": {"type": "object", "properties": {
            "code": {"type": "integer", "example": 422}, "category": {"type": "string", "example": "CUT_REJECTED"},
            "message": {"type": "string"}, "reason": {"type": "string", "example": "ExceedsSource"}}},
        "domain.User": {"type": "object", "properties": {"id": {"type": "string"}, "email": {"type": "string"}, "role": {"type": "string"}, "created_at": {"type": "string"}}},
        "domain.UserRegistration": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "domain.LoginRequest": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "user.TokenResponse": {"type": "object", "properties": {"token": {"type": "string"}}},
        "cut.ValidateRequest": {"type": "object", "properties": {
            "source_kind": {"type": "string"}, "source_id": {"type": "string"}, "cuts": {"type": "array", "items": {"$ref": "#/definitions/domain.CutRequest"}}}},
        "cut.ValidateResponse": {"type": "object", "properties": {
            "verdicts": {"type": "array", "items": {"$ref": "#/definitions/domain.CutVerdict"}}, "all_ok": {"type": "boolean"}}}
    }
}`

// SwaggerInfo guarda os metadados exportados da especificação.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "AcriStock API",
	Description:      "Inventário de chapas acrílicas e motor de cortes (chapas, retalhos, sobras e cortes).",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
