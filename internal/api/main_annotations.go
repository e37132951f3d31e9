// @title           inkwell API
// @version         1.0
// @description     Minimal blogging backend. Posts are public to read; only a post's author may change it.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerToken
// @in              header
// @name            Authorization
// @description     Type "Bearer" followed by a space and your credential. Example: "Bearer ink_xxx"
package api
