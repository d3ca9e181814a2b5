package consts

const UA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"

const XMLTV_INDEX_URL = "https://xmltv.net"

// XMLTV programme start/stop attribute format.
const WIRE_TIME_FORMAT = "20060102150405 -0700"

// fetchTime stamp format, offset without colon.
const FETCH_TIME_FORMAT = "2006-01-02T15:04:05-0700"

const DATE_FORMAT = "2006-01-02"
const CLOCK_FORMAT = "1504"

const GUIDE_VERSION = "1.0"

// Fixed name of the JSON file inside every archive.
const GUIDE_FILENAME = "Procentric_EPG.json"
