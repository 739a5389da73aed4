// Package docs registers the OpenAPI document served at /docs.
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
        "/basket/compare": {
            "post": {
                "description": "Prices the basket at every active store and ranks stores by missing items, then total price",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "basket"
                ],
                "summary": "Compare basket across stores",
                "parameters": [
                    {
                        "description": "Reference item ids",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.CompareRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/comparison.BasketComparisonResponse"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "503": {
                        "description": "Comparison not initialized",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/admin/prices": {
            "post": {
                "description": "Records a new price for a store item and refreshes its current price",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "prices"
                ],
                "summary": "Record a price",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Internal API key",
                        "name": "X-Internal-API-Key",
                        "in": "header",
                        "required": true
                    },
                    {
                        "description": "Price update",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/pricing.PriceUpdate"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/catalog.StorePrice"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Store item not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/admin/prices/batch": {
            "post": {
                "description": "Records every entry independently and reports per-entry outcomes",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "prices"
                ],
                "summary": "Record prices in bulk",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Internal API key",
                        "name": "X-Internal-API-Key",
                        "in": "header",
                        "required": true
                    },
                    {
                        "description": "Price updates",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.BatchPriceRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/pricing.BatchResult"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/prices/history/{storeItemId}": {
            "get": {
                "description": "Returns the recorded prices of a store item, newest first",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "prices"
                ],
                "summary": "Get price history",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store item ID",
                        "name": "storeItemId",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.PriceHistoryResponse"
                        }
                    },
                    "404": {
                        "description": "Store item not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/stores": {
            "get": {
                "description": "Returns stores in creation order; active=true keeps only active stores",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "catalog"
                ],
                "summary": "List stores",
                "parameters": [
                    {
                        "type": "boolean",
                        "description": "Only active stores",
                        "name": "active",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.StoreListResponse"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "503": {
                        "description": "Catalog not initialized",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/stores/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "catalog"
                ],
                "summary": "Get store",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/catalog.Store"
                        }
                    },
                    "404": {
                        "description": "Store not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "503": {
                        "description": "Catalog not initialized",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/reference-items": {
            "get": {
                "description": "Returns reference items ordered by name, optionally filtered by category and a case-insensitive name search",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "catalog"
                ],
                "summary": "List reference items",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Category ID",
                        "name": "category",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Name contains",
                        "name": "q",
                        "in": "query"
                    },
                    {
                        "type": "boolean",
                        "description": "Only active items",
                        "name": "active",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.ReferenceItemListResponse"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "503": {
                        "description": "Catalog not initialized",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/reference-items/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "catalog"
                ],
                "summary": "Get reference item",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Reference item ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/catalog.ReferenceItem"
                        }
                    },
                    "404": {
                        "description": "Reference item not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "503": {
                        "description": "Catalog not initialized",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/store-items": {
            "get": {
                "description": "Returns store listings ordered by id, filtered by reference item and/or store",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "catalog"
                ],
                "summary": "List store items",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Reference item ID",
                        "name": "referenceItemId",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Store ID",
                        "name": "storeId",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.StoreItemListResponse"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "503": {
                        "description": "Catalog not initialized",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/health": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "health"
                ],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.HealthResponse"
                        }
                    },
                    "503": {
                        "description": "Service Unavailable",
                        "schema": {
                            "$ref": "#/definitions/handlers.HealthResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "catalog.Store": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "location": {
                    "type": "string"
                },
                "logoUrl": {
                    "type": "string"
                },
                "active": {
                    "type": "boolean"
                }
            }
        },
        "catalog.ReferenceItem": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "categoryId": {
                    "type": "string"
                },
                "category": {
                    "type": "string"
                },
                "active": {
                    "type": "boolean"
                },
                "availability": {
                    "type": "object"
                }
            }
        },
        "handlers.StoreListResponse": {
            "type": "object",
            "properties": {
                "stores": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/catalog.Store"
                    }
                },
                "total": {
                    "type": "integer"
                }
            }
        },
        "handlers.ReferenceItemListResponse": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/catalog.ReferenceItem"
                    }
                },
                "total": {
                    "type": "integer"
                }
            }
        },
        "handlers.StoreItemView": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "storeId": {
                    "type": "string"
                },
                "referenceItemId": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "brand": {
                    "type": "string"
                },
                "barcode": {
                    "type": "string"
                },
                "discountPrice": {
                    "type": "number"
                },
                "originalPrice": {
                    "type": "number"
                },
                "currency": {
                    "type": "string"
                },
                "isPromotion": {
                    "type": "boolean"
                },
                "lastPriceUpdate": {
                    "type": "string"
                },
                "discountPercentage": {
                    "type": "number"
                }
            }
        },
        "handlers.StoreItemListResponse": {
            "type": "object",
            "properties": {
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/handlers.StoreItemView"
                    }
                },
                "total": {
                    "type": "integer"
                }
            }
        },
        "catalog.StorePrice": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "storeItemId": {
                    "type": "string"
                },
                "price": {
                    "type": "number"
                },
                "originalPrice": {
                    "type": "number"
                },
                "currency": {
                    "type": "string"
                },
                "isPromotion": {
                    "type": "boolean"
                },
                "timestamp": {
                    "type": "string"
                }
            }
        },
        "comparison.BasketItemInfo": {
            "type": "object",
            "properties": {
                "referenceItemId": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "category": {
                    "type": "string"
                }
            }
        },
        "comparison.StoreItemPriceInfo": {
            "type": "object",
            "properties": {
                "referenceItemId": {
                    "type": "string"
                },
                "referenceItemName": {
                    "type": "string"
                },
                "storeItemId": {
                    "type": "string"
                },
                "storeItemName": {
                    "type": "string"
                },
                "brand": {
                    "type": "string"
                },
                "price": {
                    "type": "number"
                },
                "currency": {
                    "type": "string"
                },
                "isPromotion": {
                    "type": "boolean"
                },
                "available": {
                    "type": "boolean"
                }
            }
        },
        "comparison.StoreComparisonResult": {
            "type": "object",
            "properties": {
                "storeId": {
                    "type": "string"
                },
                "storeName": {
                    "type": "string"
                },
                "storeLogoUrl": {
                    "type": "string"
                },
                "totalPrice": {
                    "type": "number"
                },
                "currency": {
                    "type": "string"
                },
                "allItemsAvailable": {
                    "type": "boolean"
                },
                "itemPrices": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/comparison.StoreItemPriceInfo"
                    }
                },
                "missingItems": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "availableItemCount": {
                    "type": "integer"
                },
                "totalItemCount": {
                    "type": "integer"
                }
            }
        },
        "comparison.BasketComparisonResponse": {
            "type": "object",
            "properties": {
                "basketItems": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/comparison.BasketItemInfo"
                    }
                },
                "storeComparisons": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/comparison.StoreComparisonResult"
                    }
                },
                "cheapestStoreId": {
                    "type": "string"
                },
                "cheapestStoreName": {
                    "type": "string"
                },
                "lowestTotal": {
                    "type": "number"
                },
                "highestTotal": {
                    "type": "number"
                },
                "potentialSavings": {
                    "type": "number"
                }
            }
        },
        "handlers.CompareRequest": {
            "type": "object",
            "required": [
                "referenceItemIds"
            ],
            "properties": {
                "referenceItemIds": {
                    "type": "array",
                    "minItems": 1,
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "handlers.BatchPriceRequest": {
            "type": "object",
            "required": [
                "updates"
            ],
            "properties": {
                "updates": {
                    "type": "array",
                    "maxItems": 1000,
                    "minItems": 1,
                    "items": {
                        "$ref": "#/definitions/pricing.PriceUpdate"
                    }
                }
            }
        },
        "handlers.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "database": {
                    "type": "string"
                },
                "cache": {
                    "type": "string"
                }
            }
        },
        "handlers.PriceHistoryResponse": {
            "type": "object",
            "properties": {
                "storeItemId": {
                    "type": "string"
                },
                "prices": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/catalog.StorePrice"
                    }
                },
                "total": {
                    "type": "integer"
                }
            }
        },
        "pricing.PriceUpdate": {
            "type": "object",
            "required": [
                "price",
                "storeItemId"
            ],
            "properties": {
                "storeItemId": {
                    "type": "string"
                },
                "price": {
                    "type": "number"
                },
                "originalPrice": {
                    "type": "number"
                },
                "currency": {
                    "type": "string"
                },
                "isPromotion": {
                    "type": "boolean"
                }
            }
        },
        "pricing.BatchEntry": {
            "type": "object",
            "properties": {
                "index": {
                    "type": "integer"
                },
                "storeItemId": {
                    "type": "string"
                },
                "success": {
                    "type": "boolean"
                },
                "error": {
                    "type": "string"
                },
                "price": {
                    "$ref": "#/definitions/catalog.StorePrice"
                }
            }
        },
        "pricing.BatchResult": {
            "type": "object",
            "properties": {
                "results": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/pricing.BatchEntry"
                    }
                },
                "successCount": {
                    "type": "integer"
                },
                "failureCount": {
                    "type": "integer"
                }
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
	Title:            "Basket Service API",
	Description:      "Compares the price of a shopping basket across stores and manages store item prices.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
