// Copyright © 2024 The ELPS authors

package prose_test

import (
	"testing"

	"github.com/luthersystems/prose/prosetest"
)

func TestLang(t *testing.T) {
	tests := prosetest.TestSuite{
		{"literals", prosetest.TestSequence{
			{"3", "3", ""},
			{"3.0", "3.0", ""},
			{"-2.50", "-2.50", ""},
			{"1e3", "1e3", ""},
			{"`hi'", "`hi'", ""},
			{"()", "()", ""},
			{"#t", "#t", ""},
			{"nil", "()", ""},
		}},
		{"quote", prosetest.TestSequence{
			{"[+ 1 2]", "(+ 1 2)", ""},
			{"[1 [2 3]]", "(1 (2 3))", ""},
			{"(eval [+ 1 2])", "3", ""},
			{"(quote x)", "x", ""},
			{"(quote (+ 1 2))", "'(+ 1 2)", ""},
			{"(eval (quote (+ 1 2)))", "(+ 1 2)", ""},
			{"(eval (eval (quote (+ 1 2))))", "3", ""},
			{"[x 1]", "(x 1)", ""},
			{"(eval [x 1])", "(x 1)", ""},
			{"(def plus [+ 1 2])", "(+ 1 2)", ""},
			{"plus", "3", ""},
		}},
		{"arithmetic", prosetest.TestSequence{
			{"(+ 1 (* 2 3))", "7", ""},
			{"(- 10 1 2)", "7", ""},
			{"(+ 5)", "5", ""},
			{"(× 2 3 4)", "24", ""},
		}},
		{"if", prosetest.TestSequence{
			{"(if (= 1 1) `yes' `no')", "`yes'", ""},
			{"(if (= 1 2) `yes' `no')", "`no'", ""},
			{"(if () 1 2)", "2", ""},
			{"(if 0 1 2)", "1", ""},
			{"(if #t (print `then') (print `else'))", "()", "then\n"},
			{"(if nil (print `then') (print `else'))", "()", "else\n"},
		}},
		{"bind", prosetest.TestSequence{
			{"(bind x (+ 1 2))", "x", ""},
			{"x", "3", ""},
			{"(bind y (print `used'))", "y", ""},
			{"y", "()", "used\n"},
			{"y", "()", "used\n"},
		}},
		{"def and del", prosetest.TestSequence{
			{"(def x (+ 2 3))", "5", ""},
			{"x", "5", ""},
			{"(def p [1 2 3])", "(1 2 3)", ""},
			{"(car p)", "1", ""},
			{"(del x)", "()", ""},
			{"x", "unbound-symbol: unbound symbol: x", ""},
		}},
		{"let1", prosetest.TestSequence{
			{"(let1 x 5 (+ x 1))", "6", ""},
			{"x", "unbound-symbol: unbound symbol: x", ""},
			{"(def x 1)", "1", ""},
			{"(let1 x 5 x)", "5", ""},
			{"x", "1", ""},
			{"(let1 (quote y) 3 (+ x y))", "4", ""},
			{"(let1 x 5 (car 5))", "type-mismatch: expected a list, got number", ""},
			{"x", "1", ""},
		}},
		{"lambda", prosetest.TestSequence{
			{"((lambda [x] (* x 2)) 4)", "8", ""},
			{"((λ [x y] (- x y)) 10 4)", "6", ""},
			{"((lambda [] 5))", "5", ""},
			{"(def double (lambda [x] (* x 2)))", "(lambda '(x) (* x 2))", ""},
			{"(double 21)", "42", ""},
			{"(double 1 2)", "arity-error: expected 1 arguments, got 2", ""},
		}},
		{"closures", prosetest.TestSequence{
			{"(defun make-adder [n] (lambda [x] (+ x n)))", "make-adder", ""},
			{"(def add1 (make-adder 1))", "(lambda '(x) (+ x n))", ""},
			{"(def add2 (make-adder 2))", "(lambda '(x) (+ x n))", ""},
			{"(add1 10)", "11", ""},
			{"(add2 10)", "12", ""},
			{"(add1 (add2 0))", "3", ""},
			{"n", "unbound-symbol: unbound symbol: n", ""},
		}},
		{"let1 closures", prosetest.TestSequence{
			{"((let1 x 5 (lambda [] x)))", "5", ""},
			{"x", "unbound-symbol: unbound symbol: x", ""},
		}},
		{"globals", prosetest.TestSequence{
			{"(def total 0)", "0", ""},
			{"(defun add! [n] (def total (+ total n)))", "add!", ""},
			{"(add! 5)", "5", ""},
			{"total", "5", ""},
			{"(add! 2)", "7", ""},
			{"total", "7", ""},
			{"(def k 1)", "1", ""},
			{"(defun getk [] k)", "getk", ""},
			{"(def k 2)", "2", ""},
			{"(getk)", "2", ""},
			{"(del k)", "()", ""},
			{"(getk)", "k", ""},
		}},
		{"dynamic visibility", prosetest.TestSequence{
			{"(defun show [] y)", "show", ""},
			{"(defun call-with [y] (show))", "call-with", ""},
			{"(call-with 42)", "42", ""},
			{"y", "unbound-symbol: unbound symbol: y", ""},
		}},
		{"recursion", prosetest.TestSequence{
			{"((defun fib [n] (if (= n 0) 0 (if (= n 1) 1 (+ (fib (− n 1)) (fib (− n 2)))))) 10)", "55", ""},
			{"(fib 2)", "1", ""},
			{"(def fact (lambda [n] (if (< n 2) 1 (* n (fact (- n 1))))))", "(lambda '(n) (if (< n 2) 1 (* n (fact (- n 1)))))", ""},
			{"(fact 5)", "120", ""},
			{"(def fact (lambda [n] (if (< n 2) 1 (+ n (fact (- n 1))))))", "(lambda '(n) (if (< n 2) 1 (+ n (fact (- n 1)))))", ""},
			{"(fact 5)", "15", ""},
		}},
		{"map", prosetest.TestSequence{
			{"(map (λ [x] (* x 2)) [1 2 3])", "(2 4 6)", ""},
			{"(map (λ [x] (* x 2)) 1 2 3)", "(2 4 6)", ""},
			{"(map (λ [x] (* x 2)) range 0 4 1)", "(0 2 4 6)", ""},
			{"(map (λ [x] (* x 2)) (range 3))", "(0 2 4)", ""},
			{"(map (λ [x] x) [])", "()", ""},
			{"(map (λ [x] x) [5])", "(5)", ""},
			{"(map abs [-1 2 -3])", "(1 2 3)", ""},
		}},
		{"macro", prosetest.TestSequence{
			{"(def unless (macro [c a b] (list (quote if) c b a)))", "(macro '(c a b) (list (quote if) c b a))", ""},
			{"(unless () 1 2)", "1", ""},
			{"(unless #t 1 2)", "2", ""},
			{"(unless () (print `a') (print `b'))", "()", "a\n"},
			{"((macro [x] x) (+ 1 2))", "3", ""},
		}},
		{"docstrings", prosetest.TestSequence{
			{"(defun sq [x] `Returns x squared.' (* x x))", "sq", ""},
			{"(sq 3)", "9", ""},
			{"(doc sq)", "`Returns x squared.'", ""},
			{"(doc (lambda [] 1))", "`'", ""},
			{"(doc 5)", "type-mismatch: doc: expected a function, got number", ""},
			{"(defun bad [x] 1 2 3)", "arity-error: defun: expected 3 or 4 elements, got 5", ""},
		}},
		{"greeting", prosetest.TestSequence{
			{"(bind greet (λ [name age] (+ `Hello, ' name `, you are ' age ` years old.')))", "greet", ""},
			{"(greet `Ada' `36')", "`Hello, Ada, you are 36 years old.'", ""},
		}},
		{"errors", prosetest.TestSequence{
			{"(if 1 2)", "if: arity-error: expected 3 elements, got 2", ""},
			{"(+)", "arity-error: expected at least one argument", ""},
			{"(bind 1 2)", "type-mismatch: bind: expected a symbol, got number", ""},
			{"(lambda x x)", "type-mismatch: parameters must be a list, got symbol x", ""},
		}},
	}
	prosetest.RunTestSuite(t, tests)
}

func TestBuiltins(t *testing.T) {
	tests := prosetest.TestSuite{
		{"list", prosetest.TestSequence{
			{"(list 1 2 3)", "(1 2 3)", ""},
			{"(list)", "()", ""},
			{"(list (+ 1 1) `a')", "(2 `a')", ""},
		}},
		{"car and cdr", prosetest.TestSequence{
			{"(car [1 2 3])", "1", ""},
			{"(cdr [1 2 3])", "(2 3)", ""},
			{"(car ())", "()", ""},
			{"(cdr ())", "()", ""},
			{"(car [[1 2] 3])", "(1 2)", ""},
			{"(car 5)", "type-mismatch: expected a list, got number", ""},
		}},
		{"cons", prosetest.TestSequence{
			{"(cons 1 [2 3])", "(1 2 3)", ""},
			{"(cons 1 2)", "(pair 1 . 2)", ""},
			{"(cons 1 ())", "(1)", ""},
		}},
		{"len", prosetest.TestSequence{
			{"(len [1 2 3])", "3", ""},
			{"(len ())", "0", ""},
			{"(len `héllo')", "5", ""},
			{"(len 5)", "type-mismatch: len: expected a list or string, got number", ""},
		}},
		{"print", prosetest.TestSequence{
			{"(print `hi' 5 [1 2])", "()", "hi\n5\n(1 2)\n"},
			{"(println `x')", "()", "x\n"},
		}},
	}
	prosetest.RunTestSuite(t, tests)
}
