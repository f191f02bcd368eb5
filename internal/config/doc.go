// Package config resolves the deployment configuration of the sync tool from
// environment variables: the primary host, the contiguous list of secondary
// hosts, the sync option toggles and the notification settings. Store offers
// lazy memoized accessors; Load resolves everything at once into an immutable
// Config for injection into the rest of the application.
package config
