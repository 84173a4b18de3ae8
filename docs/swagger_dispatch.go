package docs

// @title           Dispatch API
// @version         1.0
// @description     Reservation intake, driver assignment, settlement recovery and driver tracking.

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey AdminToken
// @in header
// @name X-Admin-Token
