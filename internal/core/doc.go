// Package core provides the business logic for KPI spreadsheet imports.
//
// This package contains the import pipeline independent of the CLI, the
// workbook format and the database backend. It can be driven by the
// kpi-import command or by tests without modification.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Sheet Definitions: Registered in a [Registry], each sheet type declares
//     its category, source tag, date column, field layout and entity strategy.
//   - Parsing: [Parse] is one generic transformer driven by a definition.
//   - Writing: [Writer] persists snapshots through a single store transaction.
//   - Importer: [Importer.Run] ties it together and commits once at the end.
//
// # Sheet Registry
//
// Sheets are registered with positional column layouts. Header text in the
// workbook is cosmetic and never used for binding:
//
//	reg := core.NewRegistry()
//	reg.Register(core.SheetDefinition{
//	    Info:       core.SheetInfo{Key: "cademi", Name: "Cademi Cursos", Category: "cademi_courses", Source: "cademi"},
//	    DateColumn: 0,
//	    Entity:     core.ConstantEntity(4),
//	    Fields: []core.FieldSpec{
//	        {Name: "total_alunos", Column: 1, Type: core.FieldInteger},
//	        {Name: "taxa_ativacao", Column: 5, Type: core.FieldDecimal},
//	    },
//	})
//
// # Row Handling
//
// Every data row ends in exactly one of three outcomes:
//
//  1. Skipped: the date cell is blank. Not an error; template placeholder rows
//     look like this.
//  2. Rejected: the date is malformed, a numeric cell is not a number, or the
//     company name is unknown. Counted and reported, the run continues.
//  3. Record: a [Snapshot] is built and handed to the [Writer].
//
// A failed insert is counted like a rejected row unless the connection was
// lost, which ends the run.
//
// # Transactions
//
// All inserts of a run share one transaction. Nothing is visible until the
// final commit; if it fails, or the run stops early, everything rolls back.
// Re-importing the same workbook inserts the same snapshots again.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - DB001-DB009: Database errors (duplicates, constraints, connections)
//   - VAL001-VAL007: Validation errors (dates, numbers, companies)
//   - FILE001-FILE006: File errors (size, format, missing)
//   - IMP001-IMP004: Import errors (commit, open, cancelled)
package core
