// Package core provides the conversion of station JSON exports into CSV files.
//
// This package contains all domain logic independent of the command line
// front end. It can be driven by the CLI, by other tools, or by tests without
// modification.
//
// # Pipeline
//
// Each input file goes through the same linear steps:
//
//  1. [ReadPayload] decodes the JSON export (BOM tolerant) and extracts the
//     row list stored under "Data" or "data".
//  2. [Extract] keeps rows with a valid "DD-MM-YYYY HH:MM" datetime (or every
//     object row with Options.AllRows) and applies the row limit.
//  3. [Dataset.NormalizeTimes] rewrites "24:MM" as "00:MM" of the next day,
//     then [Dataset.SortByTime] orders rows chronologically.
//  4. [RenameColumns] turns codes such as S_27_1 into display names using the
//     mapping tables, with unit suffix, station prefix and "_2" style
//     suffixes for collisions.
//  5. [WriteCSV] writes "datetime" first, with the configured delimiter and a
//     UTF-8 byte order mark.
//
// [Converter] runs the pipeline for a single file or for every .json file in
// a directory. Files are processed one after another; a failing file is
// logged and skipped without stopping the batch.
//
// # Error Handling
//
// Technical errors are mapped to coded messages with [MapError]:
//
//   - MAP001: mapping file missing or malformed
//   - DATA001-DATA003: payload shape problems, files without valid rows and
//     impossible datetimes
//   - FILE001-FILE003: invalid JSON, unreadable input, write failures
//   - OPT001: invalid conversion options
//   - RUN001: run cancelled
package core
