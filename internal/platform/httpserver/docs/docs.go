// Package docs registers the ballot API swagger document with swag.
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
        "/v1/elections": {
            "post": {
                "tags": ["elections"],
                "summary": "Create an election owned by the caller",
                "parameters": [
                    {"type": "string", "description": "caller address", "name": "X-Caller-Address", "in": "header", "required": true},
                    {"description": "election", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.CreateElectionRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/http.ElectionResponse"}}}
            }
        },
        "/v1/elections/{election_id}": {
            "get": {
                "tags": ["elections"],
                "summary": "Election summary",
                "parameters": [{"type": "string", "description": "election id", "name": "election_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.ElectionResponse"}}}
            }
        },
        "/v1/elections/{election_id}/phase": {
            "get": {
                "tags": ["elections"],
                "summary": "Current workflow status",
                "parameters": [{"type": "string", "description": "election id", "name": "election_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.WorkflowStatusResponse"}}}
            }
        },
        "/v1/elections/{election_id}/winner": {
            "get": {
                "tags": ["elections"],
                "summary": "Winning proposal and tally state",
                "parameters": [{"type": "string", "description": "election id", "name": "election_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.WinnerResponse"}}}
            }
        },
        "/v1/elections/{election_id}/voters": {
            "post": {
                "tags": ["voters"],
                "summary": "Register a voter (administrator only, registering_voters phase)",
                "parameters": [
                    {"type": "string", "description": "caller address", "name": "X-Caller-Address", "in": "header", "required": true},
                    {"type": "string", "description": "election id", "name": "election_id", "in": "path", "required": true},
                    {"description": "voter", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.RegisterVoterRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/http.VoterResponse"}}}
            }
        },
        "/v1/elections/{election_id}/voters/{address}": {
            "get": {
                "tags": ["voters"],
                "summary": "Voter record (registered voters only)",
                "parameters": [
                    {"type": "string", "description": "caller address", "name": "X-Caller-Address", "in": "header", "required": true},
                    {"type": "string", "description": "election id", "name": "election_id", "in": "path", "required": true},
                    {"type": "string", "description": "voter address", "name": "address", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.VoterResponse"}}}
            }
        },
        "/v1/elections/{election_id}/proposals-registration/start": {
            "post": {"tags": ["workflow"], "summary": "Open proposal registration", "parameters": [{"type": "string", "name": "X-Caller-Address", "in": "header", "required": true}, {"type": "string", "name": "election_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.StatusChangeResponse"}}}}
        },
        "/v1/elections/{election_id}/proposals-registration/end": {
            "post": {"tags": ["workflow"], "summary": "Close proposal registration", "parameters": [{"type": "string", "name": "X-Caller-Address", "in": "header", "required": true}, {"type": "string", "name": "election_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.StatusChangeResponse"}}}}
        },
        "/v1/elections/{election_id}/voting-session/start": {
            "post": {"tags": ["workflow"], "summary": "Open the voting session", "parameters": [{"type": "string", "name": "X-Caller-Address", "in": "header", "required": true}, {"type": "string", "name": "election_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.StatusChangeResponse"}}}}
        },
        "/v1/elections/{election_id}/voting-session/end": {
            "post": {"tags": ["workflow"], "summary": "Close the voting session", "parameters": [{"type": "string", "name": "X-Caller-Address", "in": "header", "required": true}, {"type": "string", "name": "election_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.StatusChangeResponse"}}}}
        },
        "/v1/elections/{election_id}/tally": {
            "post": {"tags": ["workflow"], "summary": "Tally votes and record the winner", "parameters": [{"type": "string", "name": "X-Caller-Address", "in": "header", "required": true}, {"type": "string", "name": "election_id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.StatusChangeResponse"}}}}
        },
        "/v1/elections/{election_id}/proposals": {
            "get": {
                "tags": ["proposals"],
                "summary": "List proposals including GENESIS (registered voters only)",
                "parameters": [
                    {"type": "string", "description": "caller address", "name": "X-Caller-Address", "in": "header", "required": true},
                    {"type": "string", "description": "election id", "name": "election_id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.ProposalListResponse"}}}
            },
            "post": {
                "tags": ["proposals"],
                "summary": "Submit a proposal (registered voter, proposals phase)",
                "parameters": [
                    {"type": "string", "description": "caller address", "name": "X-Caller-Address", "in": "header", "required": true},
                    {"type": "string", "description": "election id", "name": "election_id", "in": "path", "required": true},
                    {"description": "proposal", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.SubmitProposalRequest"}}
                ],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/http.ProposalResponse"}}}
            }
        },
        "/v1/elections/{election_id}/proposals/{proposal_id}": {
            "get": {
                "tags": ["proposals"],
                "summary": "Proposal by index (registered voters only)",
                "parameters": [
                    {"type": "string", "description": "caller address", "name": "X-Caller-Address", "in": "header", "required": true},
                    {"type": "string", "description": "election id", "name": "election_id", "in": "path", "required": true},
                    {"type": "integer", "description": "proposal index", "name": "proposal_id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.ProposalResponse"}}}
            }
        },
        "/v1/elections/{election_id}/votes": {
            "post": {
                "tags": ["votes"],
                "summary": "Cast the caller's single vote (registered voter, voting phase)",
                "parameters": [
                    {"type": "string", "description": "caller address", "name": "X-Caller-Address", "in": "header", "required": true},
                    {"type": "string", "description": "election id", "name": "election_id", "in": "path", "required": true},
                    {"description": "vote", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.CastVoteRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.VoterResponse"}}}
            }
        }
    },
    "definitions": {
        "http.CreateElectionRequest": {"type": "object", "properties": {"title": {"type": "string", "maxLength": 200}}},
        "http.RegisterVoterRequest": {"type": "object", "required": ["address"], "properties": {"address": {"type": "string"}}},
        "http.SubmitProposalRequest": {"type": "object", "properties": {"description": {"type": "string"}}},
        "http.CastVoteRequest": {"type": "object", "required": ["proposal_id"], "properties": {"proposal_id": {"type": "integer"}}},
        "http.ElectionResponse": {"type": "object", "properties": {
            "election_id": {"type": "string"}, "title": {"type": "string"}, "administrator": {"type": "string"},
            "workflow_status": {"type": "integer"}, "workflow_status_key": {"type": "string"},
            "voter_count": {"type": "integer"}, "proposal_count": {"type": "integer"}, "total_votes": {"type": "integer"},
            "winning_proposal_id": {"type": "integer"}, "created_at": {"type": "string"}, "updated_at": {"type": "string"}}},
        "http.WorkflowStatusResponse": {"type": "object", "properties": {
            "election_id": {"type": "string"}, "workflow_status": {"type": "integer"}, "workflow_status_key": {"type": "string"}}},
        "http.StatusChangeResponse": {"type": "object", "properties": {
            "election_id": {"type": "string"}, "previous_status": {"type": "integer"}, "new_status": {"type": "integer"}, "new_status_key": {"type": "string"}}},
        "http.VoterResponse": {"type": "object", "properties": {
            "address": {"type": "string"}, "is_registered": {"type": "boolean"}, "has_voted": {"type": "boolean"}, "voted_proposal_id": {"type": "integer"}}},
        "http.ProposalResponse": {"type": "object", "properties": {
            "proposal_id": {"type": "integer"}, "description": {"type": "string"}, "vote_count": {"type": "integer"}}},
        "http.ProposalListResponse": {"type": "object", "properties": {
            "items": {"type": "array", "items": {"$ref": "#/definitions/http.ProposalResponse"}}}},
        "http.WinnerResponse": {"type": "object", "properties": {
            "election_id": {"type": "string"}, "workflow_status": {"type": "integer"}, "winning_proposal_id": {"type": "integer"},
            "description": {"type": "string"}, "vote_count": {"type": "integer"}, "total_votes": {"type": "integer"},
            "tallied": {"type": "boolean"}, "decided": {"type": "boolean"}}},
        "http.ErrorResponse": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Ballot API",
	Description:      "Single-organizer elections: voter registry, proposals, one vote per voter and a plurality tally.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
