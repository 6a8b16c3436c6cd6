package search

// TimeField is the date field used for range filters and histogram bucketing.
const TimeField = "index_time"

// IndexMapping is the fixed mapping applied when the index is created.
// Only index_time and id are declared; every other field is dynamically mapped.
// Changing it only affects newly created indices, existing ones keep their mapping.
const IndexMapping = `{
  "mappings": {
    "properties": {
      "index_time": { "type": "date" },
      "id":         { "type": "keyword" }
    }
  }
}`
