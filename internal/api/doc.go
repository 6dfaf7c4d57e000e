// Package api provides the agency dashboard REST API.
//
//	@title						Plura API
//	@version					1.0
//	@description				Agencies, sub-accounts, team members, permissions, invitations and activity notifications.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	SessionAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer session token issued by the identity provider.
package api
