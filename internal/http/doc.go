// Package http provides HTTP handlers and middleware for the timeclock API.
//
// The router exposes the following endpoints:
//   - POST /auth/signup: provisions an organization and its admin user. Body:
//     {"full_name","email","password","organization_name","organization_subdomain"}.
//     Response: {"token","expires_at","user"} with 201 Created.
//   - POST /auth/login: authenticates a user and issues a bearer token using
//     the same response shape as signup.
//   - POST /time/clock-in: starts a work session for the authenticated user,
//     optionally linked to a project. At most one session per user may be open.
//   - POST /time/clock-out: closes the caller's open session and returns the
//     elapsed duration in every representation the clients consume.
//   - GET /time/current-session: reports the caller's open session, if any.
//     An idle user receives {"session":null,"isActive":false} with 200 OK.
//   - GET /time/sessions: pages through the caller's session history. Supports
//     limit, offset, project_id, date_from and date_to query parameters.
//   - GET /projects, POST /projects, GET/PUT/DELETE /projects/{id} and
//     GET /projects/{id}/stats: organization scoped project management
//     exchanging the `projectDTO` payload defined in project_handler.go.
//   - GET /users, GET /users/{id}, GET /users/{id}/stats: organization member
//     directory exchanging the `userDTO` payload defined in member_handler.go.
//   - GET /breaks/{sessionId}: lists the breaks recorded against one of the
//     caller's sessions.
//
// All endpoints except /auth/signup and /auth/login require a bearer token in
// the Authorization header. Request and response DTOs live alongside their
// respective handlers so tests and documentation share the same ground truth.
package http
