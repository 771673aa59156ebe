// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

// AskFn is the global function every Lua responder must define.
const AskFn = "Ask"

// ResponderTemplate is a Go text/template for scaffolding new Lua responder files.
const ResponderTemplate = `{{ $divider := repeat "-" (plus (max (len .URL) (len .Name) (len .Author) 3) 12) }}{{ $divider }}
-- @name    {{ .Name }}
-- @url     {{ .URL }}
-- @author  {{ .Author }}
-- @license MIT
{{ $divider }}


----- IMPORTS -----
local json = require("json")
--- END IMPORTS ---



----- VARIABLES -----
local endpoint = "{{ .URL }}"
--- END VARIABLES ---



----- MAIN -----

--- Answers a prompt.
-- Raise an error with error("...") to report a failure; its message is shown as the reply.
-- @param prompt string Prompt text
-- @return string Markdown reply
function {{ .AskFn }}(prompt)
	local response = http_tls.request({
		method = "POST",
		url = endpoint,
		headers = { ["Content-Type"] = "application/json" },
		body = json.encode({ prompt = prompt }),
	})

	if response.status ~= 200 then
		error("unexpected status " .. response.status)
	end

	return json.decode(response.body).reply
end

--- END MAIN ---




----- HELPERS -----
--- END HELPERS ---

-- ex: ts=4 sw=4 et filetype=lua
`
