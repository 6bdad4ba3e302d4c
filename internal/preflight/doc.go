// Package preflight provides readiness checks for the tools, services, and
// filesystem paths reelcheck depends on.
//
// The pipeline calls CheckFreeSpace before each fact-check so a full disk is
// reported up front instead of as a truncated download. The CLI "status"
// command runs RunAll and CheckSystemDeps to display overall health.
package preflight
