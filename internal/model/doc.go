// Package model defines shared data types used across the ETL stages.
//
// Conventions:
//   - Records are keyed by target column name; a nil value is the null marker.
//   - Candle open/close times stay epoch milliseconds until the table is
//     built, where they become ISO-8601 UTC strings.
//   - Extraction timestamps use the compact form YYYYMMDDTHHMMSSZ.
package model
