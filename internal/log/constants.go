package log

const (
	KeyAppName     = "app"
	KeyRequestID   = "requestId"
	KeyProcess     = "process"
	KeyTag         = "tag"
	KeyCommand     = "command"
	KeyUsername    = "username"
	KeyEmail       = "email"
	KeyConfig      = "config"
	KeyGatewayURL  = "gatewayUrl"
	KeyCartItems   = "cartItems"
	KeyCartItemID  = "cartItemId"
	KeyProductID   = "productId"
	KeyCategoryID  = "categoryId"
	KeyOrderID     = "orderId"
	KeyOrders      = "orders"
	KeyQuantity    = "quantity"
	KeySubtotal    = "subtotal"
	KeyTax         = "tax"
	KeyTotal       = "total"
	KeyState       = "state"
	KeyStatusCode  = "statusCode"
	KeySessionPath = "sessionPath"
)
