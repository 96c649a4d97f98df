// Package openapi registers the API description served at /swagger.
package openapi

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
        "/recommendations": {
            "get": {
                "tags": ["推荐"],
                "summary": "热门推荐",
                "parameters": [
                    {"type": "string", "name": "sort", "in": "query"},
                    {"type": "string", "name": "period", "in": "query"},
                    {"type": "string", "name": "genre", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"}
                ],
                "responses": {"200": {"description": "获取成功"}, "400": {"description": "参数错误"}}
            },
            "post": {
                "tags": ["推荐"],
                "summary": "发布推荐",
                "responses": {"201": {"description": "发布成功"}, "400": {"description": "参数错误"}}
            }
        },
        "/recommendations/search": {
            "get": {
                "tags": ["推荐"],
                "summary": "搜索推荐",
                "parameters": [
                    {"type": "string", "name": "q", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "page_size", "in": "query"}
                ],
                "responses": {"200": {"description": "搜索成功"}}
            }
        },
        "/recommendations/{id}": {
            "get": {
                "tags": ["推荐"],
                "summary": "推荐详情",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "获取成功"}, "404": {"description": "推荐不存在"}}
            }
        },
        "/recommendations/{id}/vote": {
            "post": {
                "tags": ["投票"],
                "summary": "投票",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "Idempotency-Key", "in": "header"}
                ],
                "responses": {"200": {"description": "投票成功"}, "400": {"description": "参数错误"}, "404": {"description": "推荐不存在"}}
            }
        },
        "/recommendations/{id}/comments": {
            "post": {
                "tags": ["评论"],
                "summary": "发表评论",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"201": {"description": "发表成功"}, "404": {"description": "推荐不存在"}}
            }
        },
        "/comments/{id}": {
            "delete": {
                "tags": ["评论"],
                "summary": "删除评论",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "删除成功"}, "403": {"description": "无权限"}, "404": {"description": "评论不存在"}}
            }
        },
        "/rankings": {
            "get": {
                "tags": ["排行榜"],
                "summary": "排行榜",
                "parameters": [
                    {"type": "string", "name": "cohort", "in": "query", "required": true},
                    {"type": "string", "name": "period", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "获取成功"}, "400": {"description": "参数错误"}}
            }
        },
        "/notifications": {
            "get": {
                "tags": ["通知"],
                "summary": "通知列表",
                "parameters": [{"type": "integer", "name": "page", "in": "query"}],
                "responses": {"200": {"description": "获取成功"}}
            }
        },
        "/notifications/unread-count": {
            "get": {"tags": ["通知"], "summary": "未读通知数", "responses": {"200": {"description": "获取成功"}}}
        },
        "/notifications/{id}/read": {
            "patch": {
                "tags": ["通知"],
                "summary": "标记已读",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "操作成功"}, "404": {"description": "通知不存在"}}
            }
        },
        "/notifications/mark-all-read": {
            "patch": {"tags": ["通知"], "summary": "全部标记已读", "responses": {"200": {"description": "操作成功"}}}
        },
        "/favorites/{songId}": {
            "post": {
                "tags": ["收藏"],
                "summary": "收藏歌曲",
                "parameters": [{"type": "integer", "name": "songId", "in": "path", "required": true}],
                "responses": {"200": {"description": "操作成功"}, "404": {"description": "歌曲不存在"}}
            }
        },
        "/users/{id}/follow": {
            "post": {
                "tags": ["关注"],
                "summary": "关注用户",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "操作成功"}, "400": {"description": "不能关注自己"}, "404": {"description": "用户不存在"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "TunePost API",
	Description:      "音乐推荐互动服务：投票、热门、排行榜、通知",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
