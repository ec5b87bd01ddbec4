// Package model defines the database models for immpres.
//
// This package contains GORM models that map to the immpres PostgreSQL
// schema, plus the grant-list and role types used by the capability checks.
//
// # Core Models
//
//   - User: account identity, password hash, activation and session tokens
//   - Resource: shared documents (impressions and objects) with their ACL
//   - Grant: a role list (editors, viewers, browsers) with wildcard semantics
//   - Role: the query roles (browser, viewer, editor, owner)
//
// # Database Schema
//
// The database uses PostgreSQL with two tables:
//
//   - users: accounts and credentials
//   - resources: both resource kinds, discriminated by the kind column
package model
