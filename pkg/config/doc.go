/*
Package config holds already-materialized configuration values for the
linting pipeline and exposes them through nested-section lookups.

It deliberately does not load configuration from disk; callers assemble
the value tree (from whatever file format or CLI surface they own) and
hand it to the components that consume it, such as the templaters in
pkg/templater.
*/
package config
