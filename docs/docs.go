// Package docs serves the OpenAPI description of the planner API. The
// template is maintained by hand alongside the handler annotations.
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
    "security": [{"BearerAuth": []}],
    "paths": {
        "/plans": {
            "get": {"tags": ["plans"], "summary": "List the caller's plans", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.SchedulePlan"}}}}},
            "post": {"tags": ["plans"], "summary": "Create a plan from a template, a full week or the 16:8 default",
                "description": "Sending both template and schedule is rejected with 400.",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"name": "plan", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.createPlanRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.SchedulePlan"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.errorResponse"}}}}
        },
        "/plans/active": {
            "get": {"tags": ["plans"], "summary": "Get the caller's active plan", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.SchedulePlan"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.errorResponse"}}}}
        },
        "/plans/sync": {
            "get": {"tags": ["plans"], "summary": "Plans changed or deleted since last_sync", "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "RFC3339 timestamp", "name": "last_sync", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "object"}}}}
        },
        "/plans/templates": {
            "get": {"tags": ["plans"], "summary": "Built-in quick templates", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Template"}}}}}
        },
        "/plans/{id}": {
            "get": {"tags": ["plans"], "summary": "Get one plan", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.SchedulePlan"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.errorResponse"}}}},
            "put": {"tags": ["plans"], "summary": "Rename a plan or replace its week",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "plan", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.updatePlanRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.SchedulePlan"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/http.errorResponse"}}}},
            "delete": {"tags": ["plans"], "summary": "Delete a plan",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.errorResponse"}}}}
        },
        "/plans/{id}/activate": {
            "post": {"tags": ["plans"], "summary": "Make a plan the caller's only active plan", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.SchedulePlan"}}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/http.errorResponse"}}}}
        },
        "/plans/{id}/duplicate": {
            "post": {"tags": ["plans"], "summary": "Copy a plan", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.SchedulePlan"}}}}
        },
        "/plans/{id}/template": {
            "post": {"tags": ["plans"], "summary": "Apply a quick template or a custom window to every day",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true},
                    {"name": "template", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.applyTemplateRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.SchedulePlan"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.errorResponse"}}}}
        },
        "/plans/{id}/days/{day}": {
            "patch": {"tags": ["plans"], "summary": "Edit one day's window bound or rest-day flag",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Weekday name", "name": "day", "in": "path", "required": true},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.updateDayRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.SchedulePlan"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.errorResponse"}}}}
        },
        "/plans/{id}/summary": {
            "get": {"tags": ["plans"], "summary": "Weekly fasting totals over active days", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.WeeklySummary"}}}}
        }
    },
    "definitions": {
        "domain.DaySchedule": {"type": "object", "properties": {
            "start": {"type": "string", "example": "12:00"},
            "end": {"type": "string", "example": "20:00"},
            "active": {"type": "boolean"},
            "fasting_hours": {"type": "number", "example": 16}}},
        "domain.SchedulePlan": {"type": "object", "properties": {
            "id": {"type": "string"},
            "user_id": {"type": "string"},
            "name": {"type": "string"},
            "description": {"type": "string"},
            "schedule": {"type": "object", "additionalProperties": {"$ref": "#/definitions/domain.DaySchedule"}},
            "is_active": {"type": "boolean"},
            "version": {"type": "integer"},
            "created_at": {"type": "string"},
            "updated_at": {"type": "string"},
            "deleted_at": {"type": "string"}}},
        "domain.Template": {"type": "object", "properties": {
            "slug": {"type": "string", "example": "16-8"},
            "name": {"type": "string"},
            "eating_start": {"type": "string"},
            "eating_end": {"type": "string"}}},
        "domain.WeeklySummary": {"type": "object", "properties": {
            "active_days": {"type": "integer"},
            "total_fasting_hours": {"type": "number"},
            "average_fasting_hours": {"type": "number"},
            "longest_fast_hours": {"type": "number"},
            "shortest_fast_hours": {"type": "number"}}},
        "http.createPlanRequest": {"type": "object", "required": ["name"], "properties": {
            "name": {"type": "string"},
            "description": {"type": "string"},
            "template": {"type": "string", "example": "16-8"},
            "schedule": {"type": "object", "additionalProperties": {"$ref": "#/definitions/domain.DaySchedule"}}}},
        "http.updatePlanRequest": {"type": "object", "properties": {
            "name": {"type": "string", "description": "Omit to keep the current name."},
            "description": {"type": "string", "description": "Omit to keep the current description. An empty string clears it."},
            "schedule": {"type": "object", "additionalProperties": {"$ref": "#/definitions/domain.DaySchedule"}},
            "version": {"type": "integer"}}},
        "http.applyTemplateRequest": {"type": "object", "properties": {
            "template": {"type": "string"},
            "eating_start": {"type": "string"},
            "eating_end": {"type": "string"}}},
        "http.updateDayRequest": {"type": "object", "properties": {
            "field": {"type": "string", "example": "eating_start"},
            "value": {"type": "string", "example": "11:00"},
            "active": {"type": "boolean"}}},
        "http.errorResponse": {"type": "object", "properties": {
            "error": {"type": "string"},
            "message": {"type": "string"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Kanso Fasting Planner API",
	Description:      "Weekly intermittent-fasting window plans.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
