/*
Package protocol defines the line-delimited JSON protocol spoken by the preview server.

Each input line after the story document is decoded into exactly one Command variant
(Preview, Choice, Current, Exit or Unknown). Each response is one Result variant written
as a single JSON line and flushed immediately.

# Wire Format

	-> {"type":"preview","passage":"start","state":{"gold":5}}
	<- {"content":"You have 5 gold.","choices":[],"passage_id":"start","has_choices":false}
	-> {"type":"choice"}
	<- {"error":"Missing choice index"}
*/
package protocol
