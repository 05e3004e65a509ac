// Package models defines the gorm persistence models of the reconciliation
// feature: rulesets with their field definitions, jobs and result rows.
package models
