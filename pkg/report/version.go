package report

// Kind identifies report payloads in their serialized header.
const Kind = "Report"
