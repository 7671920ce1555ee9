package highlight

// Capture names are dotted so themes can style a whole family with its
// leading segment.

const goHighlightQuery = `
((comment) @comment)
((interpreted_string_literal) @string)
((raw_string_literal) @string)
((rune_literal) @string.special)
((escape_sequence) @constant.character.escape)
((int_literal) @constant.numeric.integer)
((float_literal) @constant.numeric.float)
((imaginary_literal) @constant.numeric)
[
  "if" "else" "switch" "case" "default" "select"
] @keyword.control.conditional
[
  "for" "range" "break" "continue"
] @keyword.control.repeat
[
  "return" "goto" "fallthrough"
] @keyword.control.return
[
  "import" "package"
] @keyword.control.import
"func" @keyword.function
[
  "chan" "const" "defer" "go" "interface" "map" "struct" "type" "var"
] @keyword
((nil) @constant.builtin)
((true) @constant.builtin.boolean)
((false) @constant.builtin.boolean)
((iota) @constant.builtin)
((identifier) @type.builtin (#match? @type.builtin "^(bool|byte|rune|string|int|int8|int16|int32|int64|uint|uint8|uint16|uint32|uint64|uintptr|float32|float64|complex64|complex128|error|any|comparable)$"))
((identifier) @function.builtin (#match? @function.builtin "^(append|cap|clear|close|complex|copy|delete|imag|len|make|max|min|new|panic|print|println|real|recover)$"))
((const_spec name: (identifier) @constant))
((type_spec name: (type_identifier) @type))
((type_identifier) @type)
((package_identifier) @namespace)
((type_parameter_declaration (identifier) @type.parameter))
((function_declaration name: (identifier) @function))
((method_declaration name: (field_identifier) @function.method))
((method_elem (field_identifier) @function.method))
((call_expression function: (identifier) @function))
((call_expression function: (selector_expression field: (field_identifier) @function.method)))
((selector_expression field: (field_identifier) @variable.other.member))
((field_identifier) @variable.other.member)
((parameter_declaration (identifier) @variable.parameter))
((variadic_parameter_declaration (identifier) @variable.parameter))
((label_name) @label)
((blank_identifier) @variable.builtin)
((identifier) @variable)
[
  "+" "-" "*" "/" "%" "==" "!=" "<=" ">=" "<" ">" "=" ":=" "&&" "||"
  "!" "&" "|" "^" "<<" ">>" "&^" "+=" "-=" "*=" "/=" "%=" "&=" "|="
  "^=" "<<=" ">>=" "&^=" "<-" "++" "--" "..."
] @operator
[
  "." "," ";" ":"
] @punctuation.delimiter
[
  "(" ")" "[" "]" "{" "}"
] @punctuation.bracket
`

const yamlHighlightQuery = `
((comment) @comment)
((string_scalar) @string)
((double_quote_scalar) @string)
((single_quote_scalar) @string)
((integer_scalar) @constant.numeric.integer)
((float_scalar) @constant.numeric.float)
((null_scalar) @constant.builtin)
((boolean_scalar) @constant.builtin.boolean)
((block_mapping_pair key: (_) @variable.other.member))
((flow_pair key: (_) @variable.other.member))
((anchor_name) @label)
((alias_name) @label)
((tag) @type)
["," ":" "-" "[" "]" "{" "}" ">" "|" "*" "&"] @punctuation.delimiter
`

const tomlHighlightQuery = `
((comment) @comment)
((string) @string)
((integer) @constant.numeric.integer)
((float) @constant.numeric.float)
((boolean) @constant.builtin.boolean)
((local_date) @string.special)
((local_time) @string.special)
((local_date_time) @string.special)
((offset_date_time) @string.special)
((table (bare_key) @type))
((table (quoted_key) @type))
((table (dotted_key) @type))
((table_array_element (bare_key) @type))
((table_array_element (quoted_key) @type))
((table_array_element (dotted_key) @type))
((bare_key) @variable.other.member)
((quoted_key) @variable.other.member)
["=" "." ","] @punctuation.delimiter
["[" "]" "[[" "]]" "{" "}"] @punctuation.bracket
`

const bashHighlightQuery = `
((comment) @comment)
((string) @string)
((raw_string) @string)
((heredoc_body) @string)
((number) @constant.numeric)
((variable_name) @variable)
((special_variable_name) @variable.builtin)
((function_definition name: (word) @function))
((command_name) @function.call)
[
  "if" "then" "else" "elif" "fi" "case" "esac"
] @keyword.control.conditional
[
  "for" "while" "until" "do" "done" "select"
] @keyword.control.repeat
"in" @keyword.operator
"function" @keyword.function
[
  "local" "export" "readonly" "declare" "typeset" "unset"
] @keyword
["$" "${" "&&" "||" "|" "&" "<" ">" ">>" "<<" "<<<" ";" ";;"] @operator
["(" ")" "((" "))" "[" "]" "[[" "]]" "{" "}"] @punctuation.bracket
`

const markdownHighlightQuery = `
(atx_heading) @markup.heading
(setext_heading) @markup.heading
(thematic_break) @punctuation.special
(block_quote_marker) @markup.quote
(list_marker_plus) @markup.list.unnumbered
(list_marker_minus) @markup.list.unnumbered
(list_marker_star) @markup.list.unnumbered
(list_marker_dot) @markup.list.numbered
(list_marker_parenthesis) @markup.list.numbered
(task_list_marker_checked) @markup.list.checked
(task_list_marker_unchecked) @markup.list.unchecked
(fenced_code_block_delimiter) @punctuation.bracket
(indented_code_block) @markup.raw.block
(info_string) @label
(language) @type
(link_reference_definition) @markup.link
(pipe_table_delimiter_row) @punctuation.special
(pipe_table_delimiter_cell) @punctuation.special
`
