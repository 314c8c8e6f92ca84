package netcode

import (
	"regexp"
	"strings"
)

// LineKind tags the shape of one source line.
type LineKind int

const (
	LineOther LineKind = iota
	LineBlank
	LineWriteMethod  // public function write(param1:IDataOutput) : void
	LineLocalDecl    // var _loc2_:int = 0;
	LineForEach      // for each(_loc2_ in this.var_1)
	LineLoop         // for(...) / while(...)
	LineSuperWrite   // super.write(param1);
	LineLengthPrefix // param1.writeShort(this.var_1.length);
	LineGuard        // if(this.var_1 != null)
	LineElse         // else
	LineTargetWrite  // param1.writeInt(...);
	LineModuleWrite  // _loc2_.write(param1);
	LineTargetOther  // mentions param1 without a recognized writer call
	LineOpenBrace    // {
	LineCloseBrace   // }
)

var lineKindNames = [...]string{
	LineOther:        "other",
	LineBlank:        "blank",
	LineWriteMethod:  "write-method",
	LineLocalDecl:    "local-decl",
	LineForEach:      "for-each",
	LineLoop:         "loop",
	LineSuperWrite:   "super-write",
	LineLengthPrefix: "length-prefix",
	LineGuard:        "guard",
	LineElse:         "else",
	LineTargetWrite:  "target-write",
	LineModuleWrite:  "module-write",
	LineTargetOther:  "target-other",
	LineOpenBrace:    "open-brace",
	LineCloseBrace:   "close-brace",
}

func (k LineKind) String() string {
	if int(k) < len(lineKindNames) {
		return lineKindNames[k]
	}
	return "unknown"
}

// Shape is a classified line with the groups its kind captures.
type Shape struct {
	Kind   LineKind
	Text   string // trimmed line
	Writer string // writer method suffix as written, e.g. "Short"
	Field  string // this.<field> the shape refers to
	Opens  bool   // line contains '{'
	Closes bool   // line contains '}'
}

var (
	reWriteMethod  = regexp.MustCompile(`public function write\s*\(`)
	reLocalDecl    = regexp.MustCompile(`^var _loc\d+_:(\*|int|Number|String|class_\d+|[A-Z]\w+) = (null|0|NaN);$`)
	reForEach      = regexp.MustCompile(`\bfor each\s*\(`)
	reForEachField = regexp.MustCompile(`for each\s*\([\w ]+this\.(\w+)\)`)
	reLoop         = regexp.MustCompile(`^(for|while)\s*\(`)
	reSuperWrite   = regexp.MustCompile(`\bsuper\.write`)
	reLengthRef    = regexp.MustCompile(`this\.\w+\.length`)
	reLengthWrite  = regexp.MustCompile(`param1\.write(\w+)\(this\.(\w+)\.length`)
	reGuard        = regexp.MustCompile(`\bif\s*\(`)
	reGuardField   = regexp.MustCompile(`\bif\s*\([^)]*?\bthis\.(\w+)`)
	reElse         = regexp.MustCompile(`\belse\b`)
	reTargetWrite  = regexp.MustCompile(`\bparam1\.write(\w+)\(`)
	reModuleWrite  = regexp.MustCompile(`\.write\(\s*param1\s*\)`)
	reTarget       = regexp.MustCompile(`\bparam1\b`)
)

// Classify tags a raw source line. Earlier rules win, in the same
// precedence the write-body dispatch uses.
func Classify(line string) Shape {
	text := strings.TrimSpace(line)
	sh := Shape{
		Text:   text,
		Opens:  strings.Contains(text, "{"),
		Closes: strings.Contains(text, "}"),
	}
	switch {
	case text == "":
		sh.Kind = LineBlank
	case reWriteMethod.MatchString(text):
		sh.Kind = LineWriteMethod
	case reLocalDecl.MatchString(text):
		sh.Kind = LineLocalDecl
	case reForEach.MatchString(text):
		sh.Kind = LineForEach
		if m := reForEachField.FindStringSubmatch(text); m != nil {
			sh.Field = m[1]
		}
	case reSuperWrite.MatchString(text):
		sh.Kind = LineSuperWrite
	case reLoop.MatchString(text):
		// index loops over an array mention this.x.length in their header
		sh.Kind = LineLoop
	case reLengthRef.MatchString(text):
		sh.Kind = LineLengthPrefix
		if m := reLengthWrite.FindStringSubmatch(text); m != nil {
			sh.Writer, sh.Field = m[1], m[2]
		}
	case reGuard.MatchString(text):
		sh.Kind = LineGuard
		if m := reGuardField.FindStringSubmatch(text); m != nil {
			sh.Field = m[1]
		}
	case reElse.MatchString(text):
		sh.Kind = LineElse
	case reTargetWrite.MatchString(text):
		sh.Kind = LineTargetWrite
		sh.Writer = reTargetWrite.FindStringSubmatch(text)[1]
	case reModuleWrite.MatchString(text):
		sh.Kind = LineModuleWrite
	case text == "{":
		sh.Kind = LineOpenBrace
	case text == "}":
		sh.Kind = LineCloseBrace
	case reTarget.MatchString(text):
		sh.Kind = LineTargetOther
	default:
		sh.Kind = LineOther
	}
	return sh
}
