// Package audit emits security audit events in RFC5424 syslog format.
//
// Events cover authentication attempts, signups, capability checks, and
// resource mutations. Output goes to stdout by default; tests swap the writer
// with SetWriter. Auditing can be disabled with IMMPRES_AUDIT_ENABLED=false.
package audit
