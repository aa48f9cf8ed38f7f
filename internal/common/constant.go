package common

// AuthorizationHeader is the HTTP header carrying the bearer credential.
const AuthorizationHeader = "Authorization"

// BearerScheme is the prefix expected in front of the access token.
const BearerScheme = "Bearer "

// NotImplementedPlaceholder fills the refresh_token and scope fields of a
// login response until refresh is supported.
const NotImplementedPlaceholder = "not implemented"
