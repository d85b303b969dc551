// Package http provides HTTP handlers and middleware for the staff calendar API.
//
// The router exposes the following endpoints:
//   - GET /api/data: the full snapshot, one entry per employee with Lead, Event
//     and Patient Checkin groups. Carries an ETag and honours If-None-Match.
//   - GET /api/employees, POST /api/employees: the roster, exchanging the
//     `employeeDTO` payload defined in employee_handler.go. Duplicate names
//     answer 409.
//   - POST /api/lead, POST /api/event, POST /api/checkin: create one record from
//     a flat JSON body with "MM/DD/YYYY h:mmAM" timestamps. Employees named by a
//     record are added to the roster on first reference.
//   - DELETE /api/lead/{id}, /api/event/{id}, /api/checkin/{id}: remove a record;
//     204 on success, 404 when it does not exist.
//   - GET /api/calendar?week=MM/DD/YYYY: the grid descriptor and positioned items
//     of the week containing the given day (default: the current week), each item
//     with its palette colour and time label.
//   - GET /api/calendar.ics?week=MM/DD/YYYY: the events of that week as
//     text/calendar; 204 when the week has none.
//   - GET /api/forms/{record}/{formType}: field layout for a record's quickadd,
//     hover or main form.
//   - GET /health: 200 while storage answers, 503 otherwise.
//
// Validation failures answer 422 with a per-field map of Japanese messages.
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
