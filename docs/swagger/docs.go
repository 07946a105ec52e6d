// Package swagger provides API documentation
package swagger

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
        "/api/ai/query": {
            "post": {
                "description": "Forwards the query to the agent and relays its JSON reply unchanged. A file reference without text is sent to the agent's file processor.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ai"],
                "summary": "Query the agent",
                "parameters": [
                    {"description": "Query", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/requests.QueryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/relay.AgentReply"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/platformerrors.HTTPErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/platformerrors.HTTPErrorResponse"}}
                }
            }
        },
        "/api/ai/upload": {
            "post": {
                "description": "Stores a multipart file and returns the URL the agent and clients can reference.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["ai"],
                "summary": "Upload a file",
                "parameters": [
                    {"type": "file", "description": "File to upload", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/responses.UploadResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/platformerrors.HTTPErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/platformerrors.HTTPErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/platformerrors.HTTPErrorResponse"}}
                }
            }
        },
        "/api/conversations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["conversations"],
                "summary": "List conversations",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/responses.ConversationListResponse"}}
                }
            },
            "post": {
                "produces": ["application/json"],
                "tags": ["conversations"],
                "summary": "Create a conversation",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/responses.ConversationResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/platformerrors.HTTPErrorResponse"}}
                }
            }
        },
        "/api/conversations/{id}": {
            "get": {
                "description": "Returns the conversation log in sequence order and the pending flag.",
                "produces": ["application/json"],
                "tags": ["conversations"],
                "summary": "Get a conversation",
                "parameters": [
                    {"type": "string", "description": "Conversation ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/responses.ConversationResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/platformerrors.HTTPErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["conversations"],
                "summary": "Delete a conversation",
                "parameters": [
                    {"type": "string", "description": "Conversation ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/responses.DeletedResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/platformerrors.HTTPErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/platformerrors.HTTPErrorResponse"}}
                }
            }
        },
        "/api/conversations/{id}/events": {
            "get": {
                "description": "Server-Sent Events stream. The first event is a snapshot of the conversation, followed by message_appended, message_replaced, pending_changed and notice events.",
                "produces": ["text/event-stream"],
                "tags": ["conversations"],
                "summary": "Stream conversation events",
                "parameters": [
                    {"type": "string", "description": "Conversation ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "event stream"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/platformerrors.HTTPErrorResponse"}}
                }
            }
        },
        "/api/conversations/{id}/messages": {
            "post": {
                "description": "Uploads the optional file, appends the user message, queries the agent and appends its reply. An unavailable agent yields a fallback reply with degraded=true.",
                "consumes": ["application/json", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["conversations"],
                "summary": "Send a message",
                "parameters": [
                    {"type": "string", "description": "Conversation ID", "name": "id", "in": "path", "required": true},
                    {"description": "Message (JSON)", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/requests.SubmitMessageRequest"}},
                    {"type": "string", "description": "Message text (multipart)", "name": "text", "in": "formData"},
                    {"type": "file", "description": "Attachment (multipart)", "name": "file", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/responses.SubmitResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/platformerrors.HTTPErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/platformerrors.HTTPErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/platformerrors.HTTPErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/platformerrors.HTTPErrorResponse"}}
                }
            }
        },
        "/uploads/{name}": {
            "get": {
                "description": "Streams a previously uploaded file.",
                "produces": ["application/octet-stream"],
                "tags": ["ai"],
                "summary": "Download an uploaded file",
                "parameters": [
                    {"type": "string", "description": "Stored file key", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "binary data"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/platformerrors.HTTPErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "platformerrors.HTTPErrorDetail": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "request_id": {"type": "string"},
                "type": {"type": "string"}
            }
        },
        "platformerrors.HTTPErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/platformerrors.HTTPErrorDetail"}
            }
        },
        "relay.AgentFile": {
            "type": "object",
            "properties": {
                "mediaType": {"type": "string"},
                "name": {"type": "string"},
                "type": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "relay.AgentMediaCard": {
            "type": "object",
            "properties": {
                "channel": {"type": "string"},
                "thumbnail": {"type": "string"},
                "title": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "relay.AgentReply": {
            "type": "object",
            "properties": {
                "file": {"$ref": "#/definitions/relay.AgentFile"},
                "mediaResults": {"type": "array", "items": {"$ref": "#/definitions/relay.AgentMediaCard"}},
                "text": {"type": "string"},
                "type": {"type": "string"},
                "videos": {"type": "array", "items": {"$ref": "#/definitions/relay.AgentMediaCard"}}
            }
        },
        "requests.FileRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "example": "image/png"},
                "url": {"type": "string", "example": "/uploads/upl_01HZX3YQ2V5J8K9M0N1P2Q3R4S.png"}
            }
        },
        "requests.QueryRequest": {
            "type": "object",
            "properties": {
                "file": {"$ref": "#/definitions/requests.FileRequest"},
                "query": {"type": "string", "example": "find me videos about react hooks"}
            }
        },
        "requests.SubmitMessageRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string", "example": "hello"}
            }
        },
        "responses.AttachmentResponse": {
            "type": "object",
            "properties": {
                "mediaType": {"type": "string"},
                "name": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "responses.ConversationListResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/responses.ConversationSummaryResponse"}},
                "object": {"type": "string", "example": "list"}
            }
        },
        "responses.ConversationResponse": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "id": {"type": "string"},
                "lastActivity": {"type": "string"},
                "messages": {"type": "array", "items": {"$ref": "#/definitions/responses.MessageResponse"}},
                "object": {"type": "string", "example": "conversation"},
                "pending": {"type": "boolean"}
            }
        },
        "responses.ConversationSummaryResponse": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "id": {"type": "string"},
                "lastActivity": {"type": "string"},
                "messageCount": {"type": "integer"},
                "object": {"type": "string", "example": "conversation"},
                "pending": {"type": "boolean"}
            }
        },
        "responses.DeletedResponse": {
            "type": "object",
            "properties": {
                "deleted": {"type": "boolean", "example": true},
                "id": {"type": "string"},
                "object": {"type": "string", "example": "conversation.deleted"}
            }
        },
        "responses.FileResponse": {
            "type": "object",
            "properties": {
                "mediaType": {"type": "string", "example": "image/png"},
                "name": {"type": "string", "example": "diagram.png"},
                "size": {"type": "integer", "example": 20480},
                "url": {"type": "string", "example": "/uploads/upl_01HZX3YQ2V5J8K9M0N1P2Q3R4S.png"}
            }
        },
        "responses.MediaResultResponse": {
            "type": "object",
            "properties": {
                "channel": {"type": "string"},
                "thumbnail": {"type": "string"},
                "title": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "responses.MessageResponse": {
            "type": "object",
            "properties": {
                "attachment": {"$ref": "#/definitions/responses.AttachmentResponse"},
                "content": {"type": "string"},
                "createdAt": {"type": "string"},
                "degraded": {"type": "boolean"},
                "id": {"type": "string"},
                "mediaResults": {"type": "array", "items": {"$ref": "#/definitions/responses.MediaResultResponse"}},
                "pending": {"type": "boolean"},
                "role": {"type": "string", "example": "assistant"},
                "sequenceIndex": {"type": "integer"},
                "timestamp": {"type": "string", "example": "14:05"}
            }
        },
        "responses.NoticeResponse": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "example": "degraded"},
                "message": {"type": "string"}
            }
        },
        "responses.SubmitResponse": {
            "type": "object",
            "properties": {
                "assistantMessage": {"$ref": "#/definitions/responses.MessageResponse"},
                "degraded": {"type": "boolean"},
                "notice": {"$ref": "#/definitions/responses.NoticeResponse"},
                "userMessage": {"$ref": "#/definitions/responses.MessageResponse"}
            }
        },
        "responses.UploadResponse": {
            "type": "object",
            "properties": {
                "file": {"$ref": "#/definitions/responses.FileResponse"},
                "success": {"type": "boolean", "example": true}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Chat Relay API",
	Description:      "Gateway in front of the AI agent plus server-hosted conversations.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
