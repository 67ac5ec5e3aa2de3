// Copyright (c) 2026 Assembleia Contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package directory resolves member identifiers to eligibility facts.

The voting engine only ever asks one question: is this member in active
standing right now? Member storage, authentication, and account
management live in a separate service.

Implementations:

  - HTTPDirectory: production client for the member service
  - StaticDirectory: in-memory map for tests and dev mode
*/
package directory
