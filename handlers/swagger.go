package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the cmd API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerHTML))
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>cmdshop API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "cmdshop", "version": "v1.0.0" },
  "components": {
    "schemas": {
      "Cmd": {"type":"object","properties":{"id":{"type":"string"},"title":{"type":"string"},"content":{"type":"string"},"tags":{"type":"array","items":{"type":"string"}}}},
      "NewCmd": {"type":"object","required":["title","content"],"properties":{"title":{"type":"string"},"content":{"type":"string"},"tags":{"type":"array","items":{"type":"string"}}}},
      "CmdPatch": {"type":"object","properties":{"title":{"type":"string"},"content":{"type":"string"},"tags":{"type":"array","items":{"type":"string"}}}},
      "Message": {"type":"object","properties":{"message":{"type":"string"}}},
      "Snapshot": {"type":"object","properties":{"key":{"type":"string"},"url":{"type":"string"},"count":{"type":"integer"}}}
    },
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer" } }
  },
  "paths": {
    "/cmds": {
      "get": {
        "summary": "List cmds ordered by title",
        "parameters": [
          {"name":"tag","in":"query","schema":{"type":"string"}},
          {"name":"q","in":"query","schema":{"type":"string"}}
        ],
        "responses": { "200": { "description": "all matching cmds", "content": {"application/json":{"schema":{"type":"array","items":{"$ref":"#/components/schemas/Cmd"}}}} }, "500": { "description": "store fault" } }
      },
      "post": {
        "summary": "Create a cmd",
        "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/NewCmd"} } } },
        "responses": { "201": { "description": "created cmd" }, "400": { "description": "validation failure" }, "500": { "description": "store fault" } }
      }
    },
    "/cmds/tags": {
      "get": { "summary": "Distinct tags in use, sorted", "responses": { "200": { "description": "tag list" } } }
    },
    "/cmds/export": {
      "post": { "summary": "Upload a JSON snapshot of every cmd", "responses": { "201": { "description": "snapshot", "content": {"application/json":{"schema":{"$ref":"#/components/schemas/Snapshot"}}} }, "500": { "description": "export failed" } } }
    },
    "/cmds/{id}": {
      "parameters": [ {"name":"id","in":"path","required":true,"schema":{"type":"string"}} ],
      "get": { "summary": "Get one cmd", "responses": { "200": { "description": "cmd" }, "404": { "description": "Cmd not found" } } },
      "put": {
        "summary": "Partially update a cmd",
        "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/CmdPatch"} } } },
        "responses": { "200": { "description": "updated cmd" }, "400": { "description": "validation failure" }, "404": { "description": "Cmd not found or failed to update" } }
      },
      "delete": { "summary": "Delete a cmd", "responses": { "200": { "description": "Cmd deleted successfully" }, "404": { "description": "Cmd not found" } } }
    },
    "/auth/logout": {
      "post": { "summary": "Revoke the presented access token", "security": [{"bearer":[]}], "responses": { "200": { "description": "logged out" }, "401": { "description": "invalid or revoked token" } } }
    },
    "/auth/me": {
      "get": { "summary": "Verified claims of the caller", "security": [{"bearer":[]}], "responses": { "200": { "description": "claims" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
